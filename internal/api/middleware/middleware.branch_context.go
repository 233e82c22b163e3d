package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// BranchContextMiddleware middleware để quản lý branch context
// QUAN TRỌNG: Context làm việc là ROLE, không phải branch
// - Đọc X-Active-Role-ID (ROLE ID) từ header, fallback về role đầu tiên của user
// - Validate user có role này không
// - Từ role, tự suy ra phạm vi chi nhánh tương ứng
// - Lưu active_role_id (PRIMARY), active_branch_id (DERIVED) và scope_all_branches
//   vào context
func BranchContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Lấy user ID từ context (đã được set bởi AuthMiddleware)
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok || userIDStr == "" {
			// Không có user ID, có thể là route không cần auth
			return c.Next()
		}
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			return c.Next()
		}

		am := GetAuthManager()
		ctx := context.Background()

		// Lấy active role ID từ header, validate user có role này
		var activeRoleID primitive.ObjectID
		activeRoleIDStr := c.Get("X-Active-Role-ID")
		if activeRoleIDStr != "" {
			activeRoleID, err = primitive.ObjectIDFromHex(activeRoleIDStr)
			if err == nil {
				count, cerr := am.userRoleColl.CountDocuments(ctx, bson.M{"userId": userID, "roleId": activeRoleID})
				if cerr != nil || count == 0 {
					activeRoleID = primitive.NilObjectID
				}
			} else {
				activeRoleID = primitive.NilObjectID
			}
		}
		if activeRoleID.IsZero() {
			// Không có header hợp lệ, lấy role đầu tiên của user
			var ur tourmodels.UserRole
			if err := am.userRoleColl.FindOne(ctx, bson.M{"userId": userID}).Decode(&ur); err != nil {
				return c.Next() // Không có role, các handler tự fail-closed
			}
			activeRoleID = ur.RoleID
		}

		// Từ role suy ra phạm vi chi nhánh
		var role tourmodels.Role
		if err := am.roleColl.FindOne(ctx, bson.M{"_id": activeRoleID}).Decode(&role); err != nil {
			return c.Next()
		}

		c.Locals("active_role_id", activeRoleID.Hex())
		if role.IsSuperScope {
			c.Locals("scope_all_branches", true)
		} else {
			c.Locals("active_branch_id", role.OwnerBranchID.Hex())
		}
		return c.Next()
	}
}
