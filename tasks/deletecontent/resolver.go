package deletecontent

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const wildcard = "*"

// Resolver picks the configuration block for a project and step
type Resolver struct {
	Blocks []ConfigBlock
}

// LoadResolver reads the config blocks from a plugin configuration
func LoadResolver(conf *viper.Viper) (*Resolver, error) {
	var blocks []ConfigBlock
	if err := conf.UnmarshalKey("config", &blocks); err != nil {
		return nil, fmt.Errorf("Unable to read plugin configuration: %s", err.Error())
	}
	return &Resolver{Blocks: blocks}, nil
}

// Resolve returns the most specific block. The order of precedence is
// project and step match, step matches with project *, project matches with step *,
// then project and step are both *.
func (r *Resolver) Resolve(project, step string) (*DeletionConfig, error) {
	candidates := [][2]string{
		{project, step},
		{wildcard, step},
		{project, wildcard},
		{wildcard, wildcard},
	}
	for _, c := range candidates {
		for i := range r.Blocks {
			if r.Blocks[i].matches(c[0], c[1]) {
				cfg := r.Blocks[i].DeletionConfig
				return &cfg, nil
			}
		}
	}
	return nil, &ConfigError{Project: project, Step: step, Err: ErrNoConfiguration}
}

func (b ConfigBlock) matches(project, step string) bool {
	return contains(b.Project, project) && contains(b.Step, step)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if strings.TrimSpace(candidate) == v {
			return true
		}
	}
	return false
}
