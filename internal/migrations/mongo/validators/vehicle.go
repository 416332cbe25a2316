package validators

import "go.mongodb.org/mongo-driver/bson"

// VehicleSchema is the server-side document validator for the Vehicles
// collection.
func VehicleSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"name", "active", "created_at"},
			"properties": bson.M{
				"name": bson.M{
					"bsonType":  "string",
					"minLength": 2,
					"maxLength": 80,
				},
				"active": bson.M{
					"bsonType": "bool",
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
