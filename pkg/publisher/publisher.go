// Package publisher contains the browser-driving engine that publishes a
// listing through the target site's multi-step workflow: a retry-wrapped,
// session-isolated, step-sequenced pipeline reporting progress at fixed
// checkpoints.
package publisher

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/entrhq/adpilot/pkg/browser"
	"github.com/entrhq/adpilot/pkg/logging"
	"github.com/entrhq/adpilot/pkg/progress"
	"github.com/entrhq/adpilot/pkg/types"
)

// publishedAdsURL is where the site shows the account's listings after a
// successful publication.
const publishedAdsURL = "https://www.encuentra24.com/mis-anuncios"

// Request is one validated publication request handed to the publisher.
type Request struct {
	Listing types.Listing
	Photos  []types.Photo
}

// Response is the successful result of a publication.
type Response struct {
	URL string `json:"url"`
}

// Session is the slice of a browser session the publisher needs. One
// attempt owns exactly one session; it is closed on every exit path and
// never reused.
type Session interface {
	ID() string
	Page() playwright.Page
	Close()
}

// SessionSource opens a fresh isolated session for an attempt.
type SessionSource interface {
	OpenSession() (Session, error)
}

// NewBrowserSource adapts a browser.Manager to the SessionSource
// interface.
func NewBrowserSource(manager *browser.Manager) SessionSource {
	return browserSource{manager: manager}
}

type browserSource struct {
	manager *browser.Manager
}

func (b browserSource) OpenSession() (Session, error) {
	session, err := b.manager.OpenSession()
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Publisher runs publication requests against the target site.
type Publisher struct {
	sessions   SessionSource
	policy     Policy
	captureDir string

	// runPipeline is swapped out in tests.
	runPipeline func(listing types.Listing, photos []types.Photo, reporter progress.Reporter, page playwright.Page) error
}

// New creates a publisher using the given session source and retry
// policy. Failure screenshots are written under captureDir.
func New(sessions SessionSource, policy Policy, captureDir string) *Publisher {
	return &Publisher{
		sessions:   sessions,
		policy:     policy,
		captureDir: captureDir,
		runPipeline: func(listing types.Listing, photos []types.Photo, reporter progress.Reporter, page playwright.Page) error {
			return NewPipeline(listing, photos, reporter).Run(page)
		},
	}
}

// Publish runs the full retry-wrapped workflow for one task and returns
// its terminal outcome. Progress is streamed through reporter; taskID tags
// diagnostic artifacts.
func (p *Publisher) Publish(ctx context.Context, taskID string, req Request, reporter progress.Reporter) types.Outcome[Response] {
	reporter.Report("starting browser engine", 5)

	return Run(ctx, p.policy, reporter, func(ctx context.Context, attempt int) (Response, error) {
		if attempt > 1 {
			reporter.Report(
				fmt.Sprintf("attempt %d/%d: restarting with a clean session", attempt, p.policy.MaxAttempts), 10)
		}
		return p.attempt(taskID, req, reporter)
	})
}

// attempt drives one full pipeline run in a fresh session. The session is
// released on every exit path; on failure a diagnostic screenshot is
// captured first, while the page is still alive.
func (p *Publisher) attempt(taskID string, req Request, reporter progress.Reporter) (Response, error) {
	session, err := p.sessions.OpenSession()
	if err != nil {
		return Response{}, fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	logging.Debug("attempt started",
		zap.String("task_id", taskID),
		zap.String("session_id", session.ID()),
	)

	if err := p.runPipeline(req.Listing, req.Photos, reporter, session.Page()); err != nil {
		browser.CaptureFailure(session.Page(), p.captureDir, taskID)
		return Response{}, err
	}

	reporter.Report("publication finished successfully", 100)
	return Response{URL: publishedAdsURL}, nil
}
