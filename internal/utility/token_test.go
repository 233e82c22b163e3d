// Package utility - Test tạo và kiểm tra JWT token nội bộ.
package utility

import (
	"testing"
)

func TestCreateVaValidateToken(t *testing.T) {
	secret := "test-secret"
	tokenMap, err := CreateToken(secret, "64f000000000000000000001", "18c1a2b3", "42")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	tokenString := tokenMap["token"]
	if tokenString == "" {
		t.Fatal("CreateToken phải trả về token string")
	}

	claims, err := ValidateToken(secret, tokenString)
	if err != nil {
		t.Fatalf("ValidateToken lỗi với đúng secret: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Errorf("UserID trong claims phải được giữ nguyên, nhận được %s", claims.UserID)
	}
}

func TestValidateToken_SaiSecret(t *testing.T) {
	tokenMap, err := CreateToken("secret-a", "user1", "0", "0")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	if _, err := ValidateToken("secret-b", tokenMap["token"]); err == nil {
		t.Error("Token ký bằng secret khác phải bị từ chối")
	}
}

func TestValidateToken_ChuoiRac(t *testing.T) {
	if _, err := ValidateToken("secret", "khong-phai-jwt"); err == nil {
		t.Error("Chuỗi không phải JWT phải bị từ chối")
	}
}
