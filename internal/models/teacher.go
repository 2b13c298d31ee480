package models

// Teacher represents a staff member. A teacher with a ClassID is the homeroom
// owner for that class.
type Teacher struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NIP      string `json:"nip"`
	ClassID  string `json:"classId,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Headmaster is a singleton record identifying the school head.
type Headmaster struct {
	Name string `json:"name"`
	NIP  string `json:"nip"`
}
