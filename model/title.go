// model/title.go
package model

// Title is the inventory fact the engine consumes: how many physical copies
// exist. Catalog metadata lives with the external catalog, not here.
type Title struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	TotalCopies int    `json:"total_copies"`
}
