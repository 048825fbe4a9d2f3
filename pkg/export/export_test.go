package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course", "Status"},
		Rows: []map[string]string{
			{"Course": "Algorithms", "Status": "Passed"},
			{"Course": "Databases", "Status": "At Risk"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Course,Status\nAlgorithms,Passed\nDatabases,At Risk\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCSVExporterMissingCellsStayEmpty(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course", "Grade"},
		Rows:    []map[string]string{{"Course": "Algorithms"}},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Course,Grade\nAlgorithms,\n", string(out))
}

func TestPDFExporterRendersDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course", "Status"},
		Rows:    []map[string]string{{"Course": "Algorithms", "Status": "Passed"}},
	}

	out, err := NewPDFExporter().Render(data, "Student Report")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestCredentialsWriterAppendFormat(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCredentialsWriter(dir)
	require.NoError(t, err)

	require.NoError(t, w.Append("student", "S1", "Ada Park", "secret-pass"))
	require.NoError(t, w.Append("student", "S2", "Ben Cho", "other-pass"))
	require.NoError(t, w.Append("instructor", "I1", "Dr. Reed", "teach-pass"))

	students, err := os.ReadFile(filepath.Join(dir, "students_credentials.txt"))
	require.NoError(t, err)
	assert.Equal(t, "S1 | Ada Park | secret-pass\nS2 | Ben Cho | other-pass\n", string(students))

	instructors, err := os.ReadFile(filepath.Join(dir, "instructors_credentials.txt"))
	require.NoError(t, err)
	assert.Equal(t, "I1 | Dr. Reed | teach-pass\n", string(instructors))
}
