// Package utility chứa các helper dùng chung không thuộc domain nào.
package utility

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// String2ObjectID chuyển chuỗi hex thành ObjectID; trả về NilObjectID nếu chuỗi không hợp lệ
func String2ObjectID(s string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// UnixMilli trả về timestamp theo milli giây của t
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// CurrentTimeInMilli trả về timestamp hiện tại theo milli giây
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}
