package models

import "strings"

// Collection names a set of records stored under one path.
type Collection string

const (
	CollectionTeachers      Collection = "teachers"
	CollectionStudents      Collection = "students"
	CollectionNews          Collection = "news"
	CollectionGallery       Collection = "gallery"
	CollectionAnnouncements Collection = "announcements"
	CollectionToppers       Collection = "toppers"
	CollectionTestimonials  Collection = "testimonials"
	CollectionEvents        Collection = "events"
	CollectionFAQ           Collection = "faq"
	CollectionAdmissions    Collection = "admissionSubmissions"
	CollectionContacts      Collection = "contactSubmissions"
	CollectionAuditLogs     Collection = "auditLogs"
)

// Singleton documents.
const (
	PathSiteSettings          = "/siteSettings"
	PathPublicResultsMetadata = "/publicResultsMetadata"
)

// Path returns the store path of the collection.
func (c Collection) Path() string {
	return "/" + string(c)
}

// ItemPath returns the store path of one record.
func (c Collection) ItemPath(id string) string {
	return c.Path() + "/" + strings.Trim(id, "/")
}

// ResultsPath returns the report card sub-collection of a student.
func ResultsPath(studentID string) string {
	return CollectionStudents.ItemPath(studentID) + "/results"
}

// ResultPath returns the store path of one report card.
func ResultPath(studentID, resultID string) string {
	return ResultsPath(studentID) + "/" + strings.Trim(resultID, "/")
}
