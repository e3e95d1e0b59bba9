package validators

import "go.mongodb.org/mongo-driver/bson"

var MessValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"address",
			"monthly_price",
			"meals_per_day",
			"mess_type",
			"availability",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 300,
			},

			"monthly_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"meals_per_day": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  4,
			},

			"mess_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"veg",
					"nonveg",
					"both",
				},
			},

			"availability": bson.M{
				"bsonType": "bool",
			},

			"images": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"public_id", "url"},
				},
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
