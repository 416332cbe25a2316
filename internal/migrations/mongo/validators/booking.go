package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingSchema is the server-side document validator for the Bookings
// collection. It mirrors the struct tags on model.Booking so malformed
// writes fail even when they bypass the application.
func BookingSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"vehicle_id", "username", "start_time", "end_time", "status", "collected", "returned", "created_at"},
			"properties": bson.M{
				"vehicle_id": bson.M{
					"bsonType":    "string",
					"description": "hex ObjectID of the booked vehicle",
				},
				"username": bson.M{
					"bsonType":  "string",
					"minLength": 3,
					"maxLength": 50,
				},
				"start_time": bson.M{
					"bsonType": "date",
				},
				"end_time": bson.M{
					"bsonType": "date",
				},
				"status": bson.M{
					"enum": []string{"pending", "approved", "denied"},
				},
				"collected": bson.M{
					"bsonType": "bool",
				},
				"returned": bson.M{
					"bsonType": "bool",
				},
				"decided_at": bson.M{
					"bsonType": []string{"date", "null"},
				},
				"collected_at": bson.M{
					"bsonType": []string{"date", "null"},
				},
				"returned_at": bson.M{
					"bsonType": []string{"date", "null"},
				},
				"created_at": bson.M{
					"bsonType": "date",
				},
			},
		},
	}
}
