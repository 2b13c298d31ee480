package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Absensi SD API",
        "description": "Local-first attendance server for primary schools with full-snapshot remote sync",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and identity"},
        {"name": "Attendance", "description": "Daily marking and day views"},
        {"name": "Students", "description": "Roster, alumni and bulk import"},
        {"name": "Teachers", "description": "Staff and headmaster"},
        {"name": "Calendar", "description": "Holidays and academic years"},
        {"name": "Reports", "description": "Monthly matrix, CSV and PDF exports"},
        {"name": "Messages", "description": "WhatsApp text composition"},
        {"name": "Sync", "description": "Full-snapshot push and pull"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Authentication"],
                "summary": "Change the current teacher's password",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Reports"],
                "summary": "Landing page summary for today",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for a class on one date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "No active academic year"},
                    "422": {"description": "Date is a weekend or holiday"}
                }
            }
        },
        "/attendance/{classId}/sheet": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Day sheet for a class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/attendance/{classId}/recap": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Day recap for a class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List enrolled students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Enroll a student",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Fetch one student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Remove a student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/{id}/promote": {
            "post": {
                "tags": ["Students"],
                "summary": "Move a student to a new class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/{id}/transfer": {
            "post": {
                "tags": ["Students"],
                "summary": "Archive a student into the alumni collection",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/students/import/{classId}": {
            "post": {
                "tags": ["Students"],
                "summary": "Bulk import students from tab-separated text",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "classId", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/alumni": {
            "get": {
                "tags": ["Students"],
                "summary": "List archived alumni",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List staff",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Add a teacher",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/teachers/{id}": {
            "put": {
                "tags": ["Teachers"],
                "summary": "Update a teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Remove a teacher",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/headmaster": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Fetch the headmaster record",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Replace the headmaster record",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/holidays": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List declared holidays",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Declare a holiday",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/holidays/{id}": {
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete a holiday",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/holidays/import": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Bulk import holidays from tab-separated text",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/academic-years": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List academic years",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Add an academic year",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/academic-years/{id}": {
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete an inactive academic year",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Year is active"}}
            }
        },
        "/academic-years/{id}/activate": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Activate an academic year, deactivating the rest",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/reports/monthly": {
            "get": {
                "tags": ["Reports"],
                "summary": "Monthly attendance matrix",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "required": true, "type": "integer"},
                    {"name": "month", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/monthly.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Monthly attendance matrix as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/monthly.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Printable monthly attendance report",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/messages/parent/{id}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Compose the WhatsApp notification for a student's parent",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/messages/recap/{classId}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Compose the daily class recap text",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/status": {
            "get": {
                "tags": ["Sync"],
                "summary": "Current sync state",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/push": {
            "post": {
                "tags": ["Sync"],
                "summary": "Push the full local state to the remote now",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Remote unreachable"}}
            }
        },
        "/sync/pull": {
            "post": {
                "tags": ["Sync"],
                "summary": "Replace local collections with the remote's contents",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Remote unreachable"}}
            }
        },
        "/sync/endpoint": {
            "put": {
                "tags": ["Sync"],
                "summary": "Configure the remote sync endpoint",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["role", "username"],
            "properties": {
                "role": {"type": "string", "enum": ["ADMIN", "WALI_KELAS", "ORANG_TUA"]},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "required": ["date", "entries"],
            "properties": {
                "date": {"type": "string", "example": "2024-05-20"},
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "student_id": {"type": "string"},
                            "status": {"type": "string", "enum": ["H", "S", "I", "A", "-"]}
                        }
                    }
                }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
