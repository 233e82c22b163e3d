package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu và các tham số của pipeline metrics
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName_Auth   string `env:"MONGODB_DBNAME_AUTH,required"`              // Tên cơ sở dữ liệu xác thực
	MongoDB_DBName_Data   string `env:"MONGODB_DBNAME_DATA,required"`              // Tên cơ sở dữ liệu data
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Firebase Configuration
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`       // Firebase Project ID
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"` // Đường dẫn đến service account JSON

	// Metrics Pipeline Configuration
	MetricsTimeoutSeconds int `env:"METRICS_TIMEOUT_SECONDS" envDefault:"15"` // Timeout cho một lần tính unified metrics (giây)
	MetricsPeerLimit      int `env:"METRICS_PEER_LIMIT" envDefault:"50"`      // Số guide tối đa trong phép so sánh peer

	// Snapshot Prewarm Worker Configuration
	SnapshotPrewarmEnabled  bool `env:"SNAPSHOT_PREWARM_ENABLED" envDefault:"true"`   // Bật/tắt worker tính trước snapshot
	SnapshotPrewarmInterval int  `env:"SNAPSHOT_PREWARM_INTERVAL" envDefault:"3600"`  // Khoảng thời gian giữa các lần prewarm (giây)
	SnapshotPrewarmBatch    int  `env:"SNAPSHOT_PREWARM_BATCH" envDefault:"200"`      // Số guide tối đa mỗi lần prewarm

	// Performance Digest Delivery Configuration (optional)
	DigestEnabled    bool   `env:"DIGEST_ENABLED" envDefault:"false"` // Bật/tắt gửi digest hiệu suất
	DigestSMTPHost   string `env:"DIGEST_SMTP_HOST"`                  // SMTP host gửi email digest
	DigestSMTPPort   int    `env:"DIGEST_SMTP_PORT" envDefault:"587"` // SMTP port
	DigestSMTPUser   string `env:"DIGEST_SMTP_USER"`                  // SMTP user
	DigestSMTPPass   string `env:"DIGEST_SMTP_PASS"`                  // SMTP password
	DigestFromEmail  string `env:"DIGEST_FROM_EMAIL"`                 // Địa chỉ gửi digest
	DigestToEmails   string `env:"DIGEST_TO_EMAILS"`                  // Danh sách email nhận digest, phân cách bằng dấu phẩy
	DigestWebhookURL string `env:"DIGEST_WEBHOOK_URL"`                // Webhook nhận digest (optional)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
