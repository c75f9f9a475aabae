// Package deletecontent runs the deletion step for workflow messages.
package deletecontent

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	ci "github.com/masenocturnal/deletecontent/internal/common_interfaces"
	"github.com/masenocturnal/deletecontent/internal/config"
	"github.com/masenocturnal/deletecontent/internal/db"
	"github.com/masenocturnal/deletecontent/internal/document"
	"github.com/masenocturnal/deletecontent/internal/metrics"
	"github.com/masenocturnal/deletecontent/internal/mq"
	"github.com/masenocturnal/deletecontent/internal/process"
	"github.com/masenocturnal/deletecontent/internal/storage"
	task "github.com/masenocturnal/deletecontent/tasks/deletecontent"
	log "github.com/sirupsen/logrus"
)

// Repository is the workflow database as the pipeline uses it
type Repository interface {
	LoadProcess(id int) (*process.Process, error)
	SaveProcess(p *process.Process) error
	ListProperties(processID int) ([]process.Property, error)
	DeleteProperty(prop process.Property) error
	AddEntry(entry *process.JournalEntry) error
}

// Services are the backends a run is executed against
type Services struct {
	Repository Repository
	Storage    storage.Backend
	Documents  task.Documents
	Layout     process.Layout
	// Resolvers are keyed by lower-cased plugin title
	Resolvers map[string]*task.Resolver
}

var _ ci.PipelineInterface = (*deleteContentPipeline)(nil)

type deleteContentPipeline struct {
	log           *log.Entry
	correlationID string
	mu            sync.Mutex
	services      Services
	consumer      *mq.MessageConsumer
	conn          *gorm.DB
	workers       int
	locks         *processLocks
}

// New connects the pipeline to the services in the host configuration
func New(c *config.HostConfig, l *log.Entry) (*deleteContentPipeline, error) {
	l = l.WithField("Pipeline", "DeleteContent")

	resolvers, err := loadResolvers(c)
	if err != nil {
		return nil, err
	}

	backend, err := storage.New(c.Storage, l)
	if err != nil {
		return nil, err
	}

	conn, err := db.ConnectToDb(c.Database, l)
	if err != nil {
		backend.Close()
		return nil, err
	}

	p := NewWithServices(Services{
		Repository: process.NewStore(conn, l),
		Storage:    backend,
		Documents:  document.FileStore{Files: backend, Layout: c.Layout, RulesetDir: c.RulesetDir},
		Layout:     c.Layout,
		Resolvers:  resolvers,
	}, l)
	p.conn = conn
	if c.Workers > 0 {
		p.workers = c.Workers
	}

	if c.Rabbitmq.Host != "" {
		p.consumer = mq.NewConsumer(c.Rabbitmq, p.log)
	}
	return p, nil
}

// NewWithServices creates a pipeline over already opened services
func NewWithServices(s Services, l *log.Entry) *deleteContentPipeline {
	return &deleteContentPipeline{
		log:      l,
		services: s,
		workers:  1,
		locks:    newProcessLocks(),
	}
}

// loadResolvers reads the configuration file of every registered plugin title
func loadResolvers(c *config.HostConfig) (map[string]*task.Resolver, error) {
	resolvers := make(map[string]*task.Resolver)
	for _, title := range []string{task.TitleDeleteContent, task.TitleImageDeletion} {
		fileName, ok := c.PluginConfigFile(title)
		if !ok {
			continue
		}
		conf, err := config.ReadPluginConfig(fileName)
		if err != nil {
			return nil, err
		}
		r, err := task.LoadResolver(conf)
		if err != nil {
			return nil, err
		}
		resolvers[strings.ToLower(title)] = r
	}
	if len(resolvers) == 0 {
		return nil, fmt.Errorf("No plugin configuration registered for %s or %s", task.TitleDeleteContent, task.TitleImageDeletion)
	}
	return resolvers, nil
}

func (p *deleteContentPipeline) GetCorrelationID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.correlationID
}

func (p *deleteContentPipeline) GetLogger() *log.Entry {
	return p.log
}

// Execute runs the step named in the payload. Runs for the same process never overlap.
func (p *deleteContentPipeline) Execute(payload ci.StepPayload) (errorList []error) {
	correlationID := payload.CorrelationID
	if correlationID == "" || correlationID == uuid.Nil.String() {
		correlationID = uuid.New().String()
	}
	p.mu.Lock()
	p.correlationID = correlationID
	p.mu.Unlock()

	runLog := p.log.WithFields(log.Fields{
		"correlationId": correlationID,
		"processId":     payload.ProcessID,
		"stepId":        payload.StepID,
	})

	unlock := p.locks.lock(payload.ProcessID)
	defer unlock()

	proc, err := p.services.Repository.LoadProcess(payload.ProcessID)
	if err != nil {
		return append(errorList, err)
	}
	step := proc.StepByID(payload.StepID)
	if step == nil {
		return append(errorList, fmt.Errorf("Process %d has no step %d", payload.ProcessID, payload.StepID))
	}

	plugin := step.Plugin
	if plugin == "" {
		plugin = task.TitleDeleteContent
	}
	resolver, ok := p.services.Resolvers[strings.ToLower(plugin)]
	if !ok {
		return append(errorList, fmt.Errorf("Step %s uses plugin %s which is not configured", step.Title, plugin))
	}

	runLog.Infof("DeleteContent Start: process %s, step %s", proc.Title, step.Title)
	start := time.Now()

	deps := task.Dependencies{
		Storage:    p.services.Storage,
		Processes:  p.services.Repository,
		Properties: p.services.Repository,
		Documents:  p.services.Documents,
		Journal:    &runJournal{entries: p.services.Repository, correlationID: correlationID},
		Feedback:   &stepFeedback{log: runLog},
	}

	deleted := 0
	t, err := task.Initialize(proc, step, resolver, p.services.Layout.Paths(proc), deps, runLog)
	if err == nil {
		err = t.Execute()
		deleted = t.Deleted
	}

	if err != nil {
		errorList = append(errorList, err)
		step.Status = process.StatusError
		metrics.RecordRunFailure(plugin, task.ErrorKind(err), deleted, time.Since(start))
	} else {
		step.Status = process.StatusDone
		metrics.RecordRunSuccess(plugin, deleted, time.Since(start))
	}

	if saveErr := p.services.Repository.SaveProcess(proc); saveErr != nil {
		runLog.Errorf("Unable to set step %s to %s: %s", step.Title, step.Status, saveErr.Error())
		errorList = append(errorList, saveErr)
	}

	if len(errorList) > 0 {
		runLog.Warn("DeleteContent Complete with Errors")
	} else {
		runLog.Info("DeleteContent Complete")
	}
	return errorList
}

func (p *deleteContentPipeline) Close() error {
	p.log.Info("Recieved Shutdown Request")
	if p.conn != nil {
		p.log.Info("Shutdown Database Connection")
		if err := p.conn.Close(); err != nil {
			p.log.Warningf("Error closing database connecton, %s", err.Error())
		}
		p.log.Info("Shutdown Database Complete")
	}

	if p.services.Storage != nil {
		if err := p.services.Storage.Close(); err != nil {
			p.log.Warningf("Error closing storage, %s", err.Error())
		}
	}

	if p.consumer != nil {
		p.log.Info("Shutdown RabbitMQ Connection")
		if err := p.consumer.Close(); err != nil {
			p.log.Warningf("Error closing RabbitMQ connecton, %s", err.Error())
			return err
		}
		p.log.Info("Shutdown RabbitMQ Complete")
	}

	p.log.Info("Shutdown Complete")
	return nil
}
