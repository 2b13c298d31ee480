package store

import "github.com/noah-isme/absensi-sd-api/internal/models"

// ClassList enumerates the school's class ids.
var ClassList = []string{"1", "2", "3", "4", "5", "6"}

// Seed returns the built-in initial state used when no snapshot exists on
// disk and the remote cannot be reached.
func Seed() models.Snapshot {
	return models.Snapshot{
		Students: []models.Student{
			{ID: "s1", NISN: "0012345678", Name: "Ahmad Dani", Gender: "L", ClassID: "1", ParentPhone: "628123456789", Active: true},
			{ID: "s2", NISN: "0012345679", Name: "Bunga Citra", Gender: "P", ClassID: "1", ParentPhone: "628123456780", Active: true},
			{ID: "s3", NISN: "0012345680", Name: "Candra Wijaya", Gender: "L", ClassID: "2", Active: true},
			{ID: "s4", NISN: "0012345681", Name: "Dewi Persik", Gender: "P", ClassID: "6", Active: true},
		},
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Budi Santoso, S.Pd", NIP: "19850101 201001 1 001", ClassID: "1", Username: "guru1", Password: "123"},
			{ID: "t2", Name: "Siti Aminah, S.Pd", NIP: "19880202 201101 2 002", ClassID: "2", Username: "guru2", Password: "123"},
			{ID: "admin", Name: "Administrator", NIP: "-", Username: "admin", Password: "admin"},
		},
		AcademicYears: []models.AcademicYear{
			{ID: "1", Name: "2023/2024", Active: true},
			{ID: "2", Name: "2024/2025", Active: false},
		},
		Holidays: []models.Holiday{
			{ID: "h1", Date: "2024-05-01", Description: "Hari Buruh"},
			{ID: "h2", Date: "2024-08-17", Description: "Kemerdekaan RI"},
		},
		Headmaster: models.Headmaster{
			Name: "Drs. H. Ahmad Fauzi, M.Pd",
			NIP:  "19700101 199503 1 002",
		},
	}
}
