package services

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

const defaultRefreshConcurrency = 4

type settingsLister interface {
	List(ctx context.Context, fn func(*models.Settings) error) error
}

type sessionSource interface {
	EnsureFresh(ctx context.Context, uid string) (*session.Session, error)
}

type activityRefresher interface {
	RefreshProspectingActivity(ctx context.Context, sess *session.Session) error
}

// RefreshResult counts users processed by one run.
type RefreshResult struct {
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

type refreshJob struct {
	settings    settingsLister
	sessions    sessionSource
	client      activityRefresher
	concurrency int
}

func NewRefreshJob(settings settingsLister, sessions sessionSource, client activityRefresher) *refreshJob {
	return &refreshJob{
		settings:    settings,
		sessions:    sessions,
		client:      client,
		concurrency: defaultRefreshConcurrency,
	}
}

// Run asks the prospecting API to recompute activity for every user with
// saved settings. A failure for one user is logged and does not stop the run.
func (j *refreshJob) Run(ctx context.Context) (RefreshResult, error) {
	log := logger.FromContext(ctx)

	var uids []string
	err := j.settings.List(ctx, func(s *models.Settings) error {
		uids = append(uids, s.ID)
		return nil
	})
	if err != nil {
		return RefreshResult{}, err
	}

	var refreshed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for _, uid := range uids {
		g.Go(func() error {
			if err := j.refreshUser(gctx, uid); err != nil {
				log.Warn("activity refresh failed", "uid", uid, "error", err)
				failed.Add(1)
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	g.Wait()

	res := RefreshResult{Refreshed: int(refreshed.Load()), Failed: int(failed.Load())}
	log.Info("activity refresh finished", "refreshed", res.Refreshed, "failed", res.Failed)
	return res, ctx.Err()
}

func (j *refreshJob) refreshUser(ctx context.Context, uid string) error {
	sess, err := j.sessions.EnsureFresh(ctx, uid)
	if err != nil {
		return err
	}
	return j.client.RefreshProspectingActivity(ctx, sess)
}
