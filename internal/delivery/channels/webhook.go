package channels

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// SendWebhook POST nội dung digest dạng JSON tới webhook đã cấu hình.
func SendWebhook(webhookURL, runID, content string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"runId":     runID,
		"content":   content,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := fasthttp.DoTimeout(req, resp, 10*time.Second); err != nil {
		return err
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook trả về status %d", status)
	}
	return nil
}
