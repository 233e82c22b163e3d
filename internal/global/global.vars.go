package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"meta_tourism/config"
	"meta_tourism/internal/registry"
)

// MongoDB_Tourism_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Tourism_CollectionName struct {
	Users              string // Tên collection cho người dùng (guide, admin)
	Roles              string // Tên collection cho vai trò
	UserRoles          string // Tên collection cho người dùng và vai trò
	Branches           string // Tên collection cho chi nhánh (tenant)
	AccessTokens       string // Tên collection cho token
	Trips              string // Tên collection cho tour/trip
	TripAssignments    string // Tên collection cho phân công guide theo trip
	Bookings           string // Tên collection cho booking của khách
	Wallets            string // Tên collection cho ví guide
	WalletTransactions string // Tên collection cho giao dịch ví
	Reviews            string // Tên collection cho đánh giá của khách
	GuideSkills        string // Tên collection cho kỹ năng guide
	GuideAssessments   string // Tên collection cho bài đánh giá năng lực guide
	MetricsSnapshots   string // Tên collection cho snapshot metrics đã tính trước
}

// Các biến toàn cục
var Validate *validator.Validate                                                        // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                       // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration                                                  // Cấu hình của server
var MongoDB_ColNames MongoDB_Tourism_CollectionName = *new(MongoDB_Tourism_CollectionName) // Tên các collection

// SnapshotStoreAvailable cho biết collection metrics_snapshots có sẵn sàng hay không.
// Được resolve MỘT LẦN lúc khởi động (không probe bằng try/catch mỗi lần gọi);
// pipeline metrics chỉ đọc fast-path khi flag này là true.
var SnapshotStoreAvailable bool

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases

// InitColNames gán tên collection chuẩn cho toàn hệ thống.
func InitColNames() {
	MongoDB_ColNames.Users = "users"
	MongoDB_ColNames.Roles = "roles"
	MongoDB_ColNames.UserRoles = "user_roles"
	MongoDB_ColNames.Branches = "branches"
	MongoDB_ColNames.AccessTokens = "access_tokens"
	MongoDB_ColNames.Trips = "trips"
	MongoDB_ColNames.TripAssignments = "trip_assignments"
	MongoDB_ColNames.Bookings = "bookings"
	MongoDB_ColNames.Wallets = "wallets"
	MongoDB_ColNames.WalletTransactions = "wallet_transactions"
	MongoDB_ColNames.Reviews = "reviews"
	MongoDB_ColNames.GuideSkills = "guide_skills"
	MongoDB_ColNames.GuideAssessments = "guide_assessments"
	MongoDB_ColNames.MetricsSnapshots = "metrics_snapshots"
}
