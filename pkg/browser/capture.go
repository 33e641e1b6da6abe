package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/logging"
)

// CaptureFailure writes a diagnostic screenshot for a failed attempt while
// the page is still available, named by task id so artifacts can be traced
// back to the task that produced them. Capture problems are logged and
// swallowed; they must never mask the error that triggered the capture.
func CaptureFailure(page playwright.Page, dir, taskID string) {
	if page == nil || page.IsClosed() {
		return
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		logging.Warn("failed to create capture directory", zap.String("dir", dir), zap.Error(err))
		return
	}

	path := failurePath(dir, taskID, time.Now())
	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		logging.Warn("failed to capture failure screenshot",
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return
	}

	logging.Info("failure screenshot captured",
		zap.String("task_id", taskID),
		zap.String("path", path),
	)
}

func failurePath(dir, taskID string, ts time.Time) string {
	name := fmt.Sprintf("error_%s_%d.png", taskID, ts.UnixMilli())
	return filepath.Join(dir, name)
}
