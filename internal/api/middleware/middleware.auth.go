package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/common"
	"meta_tourism/internal/global"
	"meta_tourism/internal/logger"
	"meta_tourism/internal/utility"
)

// AuthManager quản lý xác thực và phân quyền người dùng
type AuthManager struct {
	userColl     *mongo.Collection
	roleColl     *mongo.Collection
	userRoleColl *mongo.Collection
	Cache        *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !ok {
		return nil, fmt.Errorf("collection users chưa được đăng ký")
	}
	roleColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.Roles)
	if !ok {
		return nil, fmt.Errorf("collection roles chưa được đăng ký")
	}
	userRoleColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.UserRoles)
	if !ok {
		return nil, fmt.Errorf("collection user_roles chưa được đăng ký")
	}
	return &AuthManager{
		userColl:     userColl,
		roleColl:     roleColl,
		userRoleColl: userRoleColl,
		// Cache 5 phút, dọn dẹp mỗi 10 phút
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// findUserByToken tìm user theo token bearer.
// Ưu tiên verify bằng Firebase ID token; nếu không được thì fallback tra JWT
// đã lưu trong array tokens của user.
func (am *AuthManager) findUserByToken(ctx context.Context, token string) (*tourmodels.User, error) {
	if utility.FirebaseReady() {
		if uid, err := utility.VerifyFirebaseIDToken(ctx, token); err == nil {
			var user tourmodels.User
			if err := am.userColl.FindOne(ctx, bson.M{"firebaseUid": uid}).Decode(&user); err == nil {
				return &user, nil
			}
		}
	}

	// Fallback: JWT nội bộ. Kiểm tra chữ ký trước khi tra database
	// để request với token giả không tốn một lượt query.
	if _, err := utility.ValidateToken(global.ServerConfig.JwtSecret, token); err != nil {
		return nil, common.ErrTokenInvalid
	}

	var user tourmodels.User
	err := am.userColl.FindOne(ctx, bson.M{"tokens.jwtToken": token}).Decode(&user)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	return &user, nil
}

// getUserPermissions lấy danh sách permissions của user từ cache hoặc database
func (am *AuthManager) getUserPermissions(ctx context.Context, userID primitive.ObjectID) (map[string]bool, error) {
	cacheKey := "user_permissions:" + userID.Hex()
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(map[string]bool), nil
	}

	permissions := make(map[string]bool)
	cursor, err := am.userRoleColl.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var userRoles []tourmodels.UserRole
	if err := cursor.All(ctx, &userRoles); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	for _, ur := range userRoles {
		var role tourmodels.Role
		if err := am.roleColl.FindOne(ctx, bson.M{"_id": ur.RoleID}).Decode(&role); err != nil {
			continue
		}
		for _, p := range role.Permissions {
			permissions[p] = true
		}
	}

	am.Cache.Set(cacheKey, permissions)
	return permissions, nil
}

// AuthMiddleware middleware xác thực cho Fiber
func AuthMiddleware(requirePermission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authManager := GetAuthManager()

		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Thiếu Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		user, err := authManager.findUserByToken(c.Context(), parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path": c.Path(),
			}).Warn("Token không khớp với user nào")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if !user.IsActive {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuth,
				"Tài khoản đã bị khóa",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", user.ID.Hex())
		c.Locals("user", *user)

		// Không yêu cầu permission cụ thể thì chỉ cần xác thực
		if requirePermission == "" {
			return c.Next()
		}

		permissions, err := authManager.getUserPermissions(c.Context(), user.ID)
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}
		if !permissions[requirePermission] {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuth,
				"Không có quyền: "+requirePermission,
				common.StatusForbidden,
				nil,
			))
			return nil
		}
		return c.Next()
	}
}
