package validators

import "go.mongodb.org/mongo-driver/bson"

// UserSchema is the server-side document validator for the Users
// collection. The password hash length floor rejects anything that is
// not a bcrypt digest.
func UserSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"username", "password_hash", "is_admin", "created_at"},
			"properties": bson.M{
				"username": bson.M{
					"bsonType":  "string",
					"minLength": 3,
					"maxLength": 50,
				},
				"password_hash": bson.M{
					"bsonType":  "string",
					"minLength": 59,
				},
				"is_admin": bson.M{
					"bsonType": "bool",
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
