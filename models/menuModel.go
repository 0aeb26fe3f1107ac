package models

// MenuItem is a read-only document from the MenuItems collection. The id is
// assigned by the store and attached when listing.
type MenuItem struct {
	ID    string  `bson:"-" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}
