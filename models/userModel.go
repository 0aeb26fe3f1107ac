package models

// User is keyed in the Users collection by username. The password field holds
// a bcrypt hash and never leaves the service.
type User struct {
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"-"`
	Admin    bool   `bson:"admin" json:"admin"`
}
