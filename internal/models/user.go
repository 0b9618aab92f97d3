package models

// User is a credential record: a username and its password, stored as
// plaintext in the credential file or the users collection.
type User struct {
	Username string `bson:"username" yaml:"username" json:"username"`
	Password string `bson:"password" yaml:"password" json:"-"`
}
