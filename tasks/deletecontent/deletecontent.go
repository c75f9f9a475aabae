// Package deletecontent implements the configurable content deletion step.
//
// A run resolves the configuration for the project and step, plans the deletions from it,
// executes them and then applies the side effects: deactivating the remaining steps,
// removing metadata fields and removing process properties. The first failure ends the
// run. Nothing that was already deleted is restored.
package deletecontent

import (
	"fmt"

	"github.com/masenocturnal/deletecontent/internal/process"
	log "github.com/sirupsen/logrus"
)

// Plugin titles. Both share this implementation, the legacy one is simply
// configured with a narrower set of keys.
const (
	TitleDeleteContent = "intranda_step_deleteContent"
	TitleImageDeletion = "intranda_step_imagedeletion"
)

// Stage is the position of a run in its linear lifecycle
type Stage string

// Stages of a run
const (
	StageNotStarted      Stage = "NotStarted"
	StageDeleting        Stage = "Deleting"
	StageDeactivating    Stage = "Deactivating"
	StageMetadataEditing Stage = "MetadataEditing"
	StagePropertyEditing Stage = "PropertyEditing"
	StageDone            Stage = "Done"
	StageFailed          Stage = "Failed"
)

// Dependencies are the host services a task runs against
type Dependencies struct {
	Storage    Storage
	Processes  ProcessStore
	Properties PropertyStore
	Documents  Documents
	Journal    Journal
	Feedback   Feedback
}

// Task is one invocation of the deletion step for a process
type Task struct {
	Process *process.Process
	Step    *process.Step
	Config  *DeletionConfig
	Paths   ProcessPaths

	// Deleted counts the removed targets after Execute
	Deleted int

	deps  Dependencies
	stage Stage
	log   *log.Entry
}

// NewTask prepares a run for a step that has already been configured
func NewTask(p *process.Process, step *process.Step, cfg *DeletionConfig, paths ProcessPaths, deps Dependencies, l *log.Entry) *Task {
	return &Task{
		Process: p,
		Step:    step,
		Config:  cfg,
		Paths:   paths,
		deps:    deps,
		stage:   StageNotStarted,
		log:     l.WithFields(log.Fields{"processId": p.ID, "step": step.Title}),
	}
}

// Initialize resolves the configuration of the step. A missing configuration
// is reported like any other failure and the task must not be run.
func Initialize(p *process.Process, step *process.Step, r *Resolver, paths ProcessPaths, deps Dependencies, l *log.Entry) (*Task, error) {
	t := NewTask(p, step, nil, paths, deps, l)
	cfg, err := r.Resolve(p.ProjectName, step.Title)
	if err != nil {
		t.stage = StageFailed
		t.report("Error reading configuration in task", err)
		return nil, err
	}
	t.Config = cfg
	return t, nil
}

// Stage returns where the run currently is or where it ended
func (t *Task) Stage() Stage {
	return t.stage
}

// Run executes the task and reports whether it succeeded
func (t *Task) Run() bool {
	return t.Execute() == nil
}

// Execute runs every stage in order. Errors are journaled and shown to the user before they are returned.
func (t *Task) Execute() error {
	if t.Config == nil {
		err := &ConfigError{Project: t.Process.ProjectName, Step: t.Step.Title, Err: ErrNoConfiguration}
		t.stage = StageFailed
		t.report("Error reading configuration in task", err)
		return err
	}

	t.enter(StageDeleting)
	plan := BuildPlan(t.Config)
	t.log.Debugf("Planned %d deletions: %v", len(plan), plan.Labels())
	deleted, err := NewExecutor(t.deps.Storage, t.log).Execute(plan, t.Paths)
	t.Deleted = deleted
	if err != nil {
		return t.fail("Error during file deletion in task", err)
	}

	if t.Config.DeactivateProcess {
		t.enter(StageDeactivating)
		if err := t.deactivateSteps(); err != nil {
			return t.fail("Error during process deactivation in task", err)
		}
	} else {
		t.skip(StageDeactivating)
	}

	if len(t.Config.MetadataFieldsToDelete) > 0 {
		t.enter(StageMetadataEditing)
		if err := t.deleteMetadata(); err != nil {
			return t.fail("Error while deleting metadata from meta.xml file in task", err)
		}
	} else {
		t.skip(StageMetadataEditing)
	}

	if len(t.Config.PropertiesToDelete) > 0 {
		t.enter(StagePropertyEditing)
		if err := t.deleteProperties(); err != nil {
			return t.fail("Error while deleting process properties in task", err)
		}
	} else {
		t.skip(StagePropertyEditing)
	}

	t.stage = StageDone
	t.log.Infof("Deletion Complete, %d targets removed", t.Deleted)
	t.journal(process.LogInfo, "Data was automatically deleted in task "+t.Step.Title)
	return nil
}

func (t *Task) enter(s Stage) {
	t.stage = s
	t.log.Infof("%s Start", s)
}

func (t *Task) skip(s Stage) {
	t.log.Debugf("%s Skipped", s)
}

func (t *Task) fail(prefix string, err error) error {
	t.log.Errorf("%s Failed", t.stage)
	t.stage = StageFailed
	t.report(prefix, err)
	return err
}

// report logs the error, writes it to the journal and shows it to the user
func (t *Task) report(prefix string, err error) {
	message := fmt.Sprintf("%s %s: %s", prefix, t.Step.Title, err.Error())
	t.log.Error(message)
	t.journal(process.LogError, message)
	if t.deps.Feedback != nil {
		t.deps.Feedback.Error(prefix+" "+t.Step.Title, err)
	}
}

func (t *Task) journal(kind process.LogType, message string) {
	if t.deps.Journal == nil {
		return
	}
	if err := t.deps.Journal.AddMessage(t.Process.ID, kind, message); err != nil {
		t.log.Warningf("Unable to write to the process journal: %s", err.Error())
	}
}
