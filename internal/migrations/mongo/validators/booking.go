package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"student_id",
			"owner_id",
			"service_type",
			"service_id",
			"booking_details",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"service_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"hostel",
					"mess",
					"gym",
				},
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_details": bson.M{
				"bsonType": "object",
				"required": []string{"duration"},
				"properties": bson.M{
					"check_in_date": bson.M{
						"bsonType": "date",
					},
					"start_date": bson.M{
						"bsonType": "date",
					},
					"duration": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 100,
					},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"accepted",
					"rejected",
					"cancelled",
					"terminated",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"unpaid",
					"paid",
				},
			},

			"payment_details": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"payment_id": bson.M{
						"bsonType": "string",
					},
					"order_id": bson.M{
						"bsonType": "string",
					},
					"signature": bson.M{
						"bsonType": "string",
					},
					"amount": bson.M{
						"bsonType": []string{"double", "int", "long", "decimal"},
						"minimum":  0,
					},
					"paid_at": bson.M{
						"bsonType": "date",
					},
				},
			},

			"receipt_number": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
