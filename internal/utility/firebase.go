package utility

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	firebaseApp  *firebase.App
	firebaseAuth *auth.Client
)

// findProjectDir tìm thư mục gốc của project (thư mục chứa config/env)
func findProjectDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return currentDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("không tìm thấy thư mục gốc của project")
		}
		currentDir = parentDir
	}
}

// InitFirebase khởi tạo Firebase Admin SDK để verify ID token của client.
// Đường dẫn credentials relative được resolve từ thư mục gốc project.
func InitFirebase(projectID, credentialsPath string) error {
	if !filepath.IsAbs(credentialsPath) {
		projectDir, err := findProjectDir()
		if err != nil {
			return err
		}
		credentialsPath = filepath.Join(projectDir, credentialsPath)
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return fmt.Errorf("không tìm thấy file firebase credentials: %s", credentialsPath)
	}

	conf := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(context.Background(), conf, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return fmt.Errorf("lỗi khởi tạo firebase app: %v", err)
	}
	client, err := app.Auth(context.Background())
	if err != nil {
		return fmt.Errorf("lỗi khởi tạo firebase auth client: %v", err)
	}
	firebaseApp = app
	firebaseAuth = client
	return nil
}

// VerifyFirebaseIDToken verify một Firebase ID token và trả về UID của user.
// Trả về lỗi nếu Firebase chưa được khởi tạo hoặc token không hợp lệ.
func VerifyFirebaseIDToken(ctx context.Context, idToken string) (string, error) {
	if firebaseAuth == nil {
		return "", fmt.Errorf("firebase chưa được khởi tạo")
	}
	token, err := firebaseAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

// FirebaseReady cho biết Firebase Admin SDK đã khởi tạo thành công hay chưa
func FirebaseReady() bool {
	return firebaseAuth != nil
}
