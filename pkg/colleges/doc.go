// Package colleges defines the data model shared by every pipeline stage:
// master college records and their collection, ranking entries, course-level
// rows, and the denormalized course entries projected from them.
//
// A College is identified by its synthetic ID. Its normalized name is a
// matching attribute only; several records may legitimately share a name
// (different campuses of one brand).
package colleges
