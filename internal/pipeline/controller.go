// Package pipeline implements C7, the pipeline controller: a strictly
// sequential, single-threaded orchestrator over the eleven-stage
// migration-audit stage graph, checkpointing the Project aggregate
// after every stage. Grounded on the teacher's internal/handler.Controller
// (dependency-injected collaborators, a single entry point that drives
// a domain workflow end to end) generalized from site-monitoring to
// the audit pipeline's linear stage graph.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"migaudit/internal/correspond"
	"migaudit/internal/ingest"
	"migaudit/internal/model"
	"migaudit/internal/notify"
	"migaudit/internal/probe"
	"migaudit/internal/store"
	"migaudit/pkg/logger"
)

// Budgets bounds the sample sizes the pipeline draws at each stage
// (spec §4.7), configurable via internal/config.PipelineConfig.
type Budgets struct {
	StatusCheckBudget  int
	SEOSampleBudget    int
	PerfSampleBudget   int
	MobileSampleBudget int
}

// Controller owns the collaborators every stage needs: a file reader
// for inputs, a probe executor config, a document store for
// checkpointing, and a notifier for terminal-state announcements.
type Controller struct {
	files         ingest.FileReader
	store         store.Store
	notifier      notify.Notifier
	probeCfg      probe.Config
	perfDelayMs   int
	mobileDelayMs int
	screenshotDir string
	budgets       Budgets
	resolverCfg   correspond.Config
	log           *logger.Logger
}

func NewController(files ingest.FileReader, st store.Store, notifier notify.Notifier, probeCfg probe.Config, perfDelayMs, mobileDelayMs int, screenshotDir string, budgets Budgets, resolverCfg correspond.Config) *Controller {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &Controller{
		files:         files,
		store:         st,
		notifier:      notifier,
		probeCfg:      probeCfg,
		perfDelayMs:   perfDelayMs,
		mobileDelayMs: mobileDelayMs,
		screenshotDir: screenshotDir,
		budgets:       budgets,
		resolverCfg:   resolverCfg,
		log:           logger.GetLogger().WithField("component", "pipeline_controller"),
	}
}

// runState carries data produced by one stage into the next, without
// polluting the Project record with intermediate working sets.
type runState struct {
	oldURLs     []string
	newURLs     []string
	analytics   []model.AnalyticsEntry
	redirectMap model.RedirectMap
	report      model.CorrespondenceReport
	oldResults  []model.ProbeResult
	newResults  []model.ProbeResult
	perfPairs   []urlPair
}

// Run drives project through every stage of the stage graph in order,
// checkpointing after each one. On any stage error, the project is
// marked failed with the last completed percentage preserved and no
// further stages run (spec §4.7 error policy); per-URL failures inside
// a stage never abort the pipeline.
func (c *Controller) Run(ctx context.Context, project *model.Project) error {
	project.Status = model.StatusProcessing
	project.Progress.StartedAt = time.Now()

	st := &runState{}

	stages := []struct {
		tag model.StageTag
		fn  func(context.Context, *model.Project, *runState) error
	}{
		{model.StageParsingSitemaps, c.stageParsingSitemaps},
		{model.StageParsingAnalytics, c.stageParsingAnalytics},
		{model.StageParsingRedirects, c.stageParsingRedirects},
		{model.StageComparingURLs, c.stageComparingURLs},
		{model.StageCheckingOldURLs, c.stageCheckingOldURLs},
		{model.StageCheckingNewURLs, c.stageCheckingNewURLs},
		{model.StageValidatingSEO, c.stageValidatingSEO},
		{model.StageFinalizing, c.stageFinalizing},
		{model.StageTestingPerformance, c.stageTestingPerformance},
		{model.StageTestingMobile, c.stageTestingMobile},
	}

	for _, s := range stages {
		tag := s.tag
		project.Progress.Stage = tag

		if err := s.fn(ctx, project, st); err != nil {
			// progress.percentage is left at the last *completed* stage's
			// value, per the error policy: fail() below only overwrites
			// stage and error, not percentage.
			return c.fail(ctx, project, tag, err)
		}

		project.Progress.Percentage = model.PercentFor(tag)

		if err := c.store.Save(ctx, project); err != nil {
			return c.fail(ctx, project, tag, fmt.Errorf("checkpoint after %s: %w", tag, err))
		}
	}

	now := time.Now()
	project.Status = model.StatusCompleted
	project.Progress.Stage = model.StageCompleted
	project.Progress.Percentage = 100
	project.Progress.CompletedAt = &now

	if err := c.store.Save(ctx, project); err != nil {
		return fmt.Errorf("checkpoint at completion: %w", err)
	}
	if err := c.notifier.ProjectCompleted(ctx, project); err != nil {
		c.log.WithError(err).Warn("failed to send completion notification")
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, project *model.Project, tag model.StageTag, err error) error {
	project.Status = model.StatusFailed
	project.Progress.Stage = model.StageFailed
	project.Progress.Error = err.Error()

	if saveErr := c.store.Save(ctx, project); saveErr != nil {
		c.log.WithError(saveErr).Error("failed to checkpoint failed project")
	}
	if notifyErr := c.notifier.ProjectFailed(ctx, project); notifyErr != nil {
		c.log.WithError(notifyErr).Warn("failed to send failure notification")
	}

	c.log.WithFields(map[string]interface{}{"project": project.ID, "stage": tag}).WithError(err).Error("pipeline stage failed")
	return err
}
