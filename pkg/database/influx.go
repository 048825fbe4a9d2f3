package database

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/noah-isme/university-portal-api/pkg/config"
)

// NewInflux returns an InfluxDB client. Connectivity is not verified here;
// event writes are advisory and the service must start without the
// time-series store.
func NewInflux(cfg config.InfluxConfig) influxdb2.Client {
	return influxdb2.NewClient(cfg.URL, cfg.Token)
}
