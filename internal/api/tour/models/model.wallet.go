// Package models - Wallet và WalletTransaction thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại giao dịch ví
const (
	TransactionTypeEarning   = "earning"   // Thu nhập từ trip
	TransactionTypeDeduction = "deduction" // Khấu trừ / phạt
	TransactionTypePayout    = "payout"    // Rút tiền
)

// Wallet ví của một guide (wallets)
type Wallet struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`       // MongoDB _id
	GuideID   primitive.ObjectID `json:"guideId" bson:"guideId" index:"single:1"` // Guide sở hữu ví
	BranchID  primitive.ObjectID `json:"branchId" bson:"branchId"`                // Chi nhánh sở hữu
	Balance   float64            `json:"balance" bson:"balance"`                  // Số dư hiện tại (VND)
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`              // Unix seconds
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`              // Unix seconds
}

// WalletTransaction một bút toán trên ví guide (wallet_transactions).
// Giao dịch là dữ liệu immutable: đã ghi thì không sửa, không xóa.
type WalletTransaction struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`                               // MongoDB _id
	WalletID  primitive.ObjectID  `json:"walletId" bson:"walletId" index:"single:1,compound:wallet_type"`  // Ví
	TripID    *primitive.ObjectID `json:"tripId,omitempty" bson:"tripId,omitempty" index:"single:1"`       // Trip liên quan (nếu có)
	Type      string              `json:"type" bson:"type" index:"compound:wallet_type"`                   // earning | deduction | payout
	Amount    float64             `json:"amount" bson:"amount"`                                            // Số tiền (VND)
	Note      string              `json:"note,omitempty" bson:"note,omitempty"`                            // Ghi chú
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`                                      // Unix seconds
}
