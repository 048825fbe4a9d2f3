package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Portal API",
        "description": "Multi-store backend for a university portal: MongoDB system of record, Neo4j relationship mirror, Redis cache and sessions, InfluxDB behavioral analytics",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session handling"},
        {"name": "Student", "description": "Enrollment, coursework and performance"},
        {"name": "Instructor", "description": "Taught courses, assignments and grading"},
        {"name": "Dean", "description": "Catalog, registration and placement"},
        {"name": "Analytics", "description": "Behavioral aggregates on the event store"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "Session closed"}
                }
            }
        },
        "/student/courses": {
            "get": {
                "tags": ["Student"],
                "summary": "List enrolled courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/available": {
            "get": {
                "tags": ["Student"],
                "summary": "List courses available for registration",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/courses/{courseID}": {
            "get": {
                "tags": ["Student"],
                "summary": "View one enrolled course",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not enrolled"}
                }
            }
        },
        "/student/courses/{courseID}/enroll": {
            "post": {
                "tags": ["Student"],
                "summary": "Enroll in a course",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Enrolled"},
                    "409": {"description": "Already enrolled, course full or schedule conflict"}
                }
            }
        },
        "/student/courses/{courseID}/network": {
            "get": {
                "tags": ["Student"],
                "summary": "Single-course neighborhood",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/network": {
            "get": {
                "tags": ["Student"],
                "summary": "Shared-course peer network",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/tasks/pending": {
            "get": {
                "tags": ["Student"],
                "summary": "List unsubmitted assignments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/assignments/{assignmentID}/answer": {
            "post": {
                "tags": ["Student"],
                "summary": "Submit an assignment answer",
                "parameters": [
                    {"name": "assignmentID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitAnswerRequest"}}
                ],
                "responses": {
                    "204": {"description": "Stored"},
                    "403": {"description": "Not enrolled in the assignment's course"}
                }
            }
        },
        "/student/performance": {
            "get": {
                "tags": ["Student"],
                "summary": "Per-course performance report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/courses": {
            "get": {
                "tags": ["Instructor"],
                "summary": "List taught courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/assignments": {
            "get": {
                "tags": ["Instructor"],
                "summary": "List assignments across all taught courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/courses/{courseID}/assignments": {
            "get": {
                "tags": ["Instructor"],
                "summary": "List assignments of one taught course",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Instructor"],
                "summary": "Create an assignment",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/courses/{courseID}/students": {
            "get": {
                "tags": ["Instructor"],
                "summary": "List enrolled students",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/courses/{courseID}/network": {
            "get": {
                "tags": ["Instructor"],
                "summary": "Course neighborhood from the graph mirror",
                "parameters": [
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/assignments/{assignmentID}/grade": {
            "post": {
                "tags": ["Instructor"],
                "summary": "Grade a student's submission",
                "parameters": [
                    {"name": "assignmentID", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}
                ],
                "responses": {
                    "204": {"description": "Graded"},
                    "404": {"description": "No submission from this student"}
                }
            }
        },
        "/instructor/assignments/{assignmentID}/answers/{studentID}": {
            "get": {
                "tags": ["Instructor"],
                "summary": "View one student's submission",
                "parameters": [
                    {"name": "assignmentID", "in": "path", "required": true, "type": "string"},
                    {"name": "studentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/majors": {
            "get": {
                "tags": ["Dean"],
                "summary": "List academic programs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Dean"],
                "summary": "Create an academic program",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMajorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/rooms": {
            "post": {
                "tags": ["Dean"],
                "summary": "Create a room",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/courses": {
            "post": {
                "tags": ["Dean"],
                "summary": "Place a new course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Room or instructor busy, or duplicate course"}
                }
            }
        },
        "/dean/students": {
            "post": {
                "tags": ["Dean"],
                "summary": "Register a student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/instructors": {
            "post": {
                "tags": ["Dean"],
                "summary": "Register an instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterInstructorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/rooms/available": {
            "get": {
                "tags": ["Dean"],
                "summary": "List rooms free during a weekly slot",
                "parameters": [
                    {"name": "days", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "required": true, "type": "string"},
                    {"name": "end_time", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/instructors/available": {
            "get": {
                "tags": ["Dean"],
                "summary": "List instructors free during a weekly slot",
                "parameters": [
                    {"name": "days", "in": "query", "required": true, "type": "string"},
                    {"name": "start_time", "in": "query", "required": true, "type": "string"},
                    {"name": "end_time", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/students/{studentID}/overview": {
            "get": {
                "tags": ["Dean"],
                "summary": "Consolidated student view across all stores",
                "parameters": [
                    {"name": "studentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/students/{studentID}/report.pdf": {
            "get": {
                "tags": ["Dean"],
                "summary": "Download a student performance report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "studentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/dean/students/{studentID}/report.csv": {
            "get": {
                "tags": ["Dean"],
                "summary": "Download a student performance report as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "studentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/dean/analytics/courses/top": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Rank courses by engagement, highest first",
                "parameters": [
                    {"name": "major_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/analytics/courses/worst": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Rank courses by engagement, lowest first",
                "parameters": [
                    {"name": "major_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/analytics/students/{studentID}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Behavioural summary of one student",
                "parameters": [
                    {"name": "studentID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dean/analytics/students/{studentID}/courses/{courseID}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Behavioural summary of one student within one course",
                "parameters": [
                    {"name": "studentID", "in": "path", "required": true, "type": "string"},
                    {"name": "courseID", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["user_id", "password"],
            "properties": {
                "user_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitAnswerRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string"}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "required": ["title", "deadline", "max_grade"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "deadline": {"type": "string"},
                "max_grade": {"type": "number"}
            }
        },
        "GradeRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "string"},
                "grade": {"type": "number"}
            }
        },
        "CreateMajorRequest": {
            "type": "object",
            "required": ["major_id", "major_name"],
            "properties": {
                "major_id": {"type": "string"},
                "major_name": {"type": "string"}
            }
        },
        "CreateRoomRequest": {
            "type": "object",
            "required": ["room"],
            "properties": {
                "room": {"type": "string"},
                "capacity": {"type": "integer"}
            }
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["course_id", "course_name", "major_ids", "instructor_id", "room", "schedule"],
            "properties": {
                "course_id": {"type": "string"},
                "course_name": {"type": "string"},
                "major_ids": {"type": "array", "items": {"type": "string"}},
                "instructor_id": {"type": "string"},
                "room": {"type": "string"},
                "schedule": {"$ref": "#/definitions/Schedule"}
            }
        },
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["student_id", "full_name", "major_id", "password"],
            "properties": {
                "student_id": {"type": "string"},
                "full_name": {"type": "string"},
                "major_id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterInstructorRequest": {
            "type": "object",
            "required": ["instructor_id", "full_name", "password"],
            "properties": {
                "instructor_id": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Schedule": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "string"}},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
