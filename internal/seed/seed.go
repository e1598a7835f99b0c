package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	groupchoicedomain "github.com/smallbiznis/policyhub/internal/groupchoice/domain"
	groupchoicerepository "github.com/smallbiznis/policyhub/internal/groupchoice/repository"
	insurerdomain "github.com/smallbiznis/policyhub/internal/insurer/domain"
	insurerrepository "github.com/smallbiznis/policyhub/internal/insurer/repository"
	productdomain "github.com/smallbiznis/policyhub/internal/product/domain"
	productrepository "github.com/smallbiznis/policyhub/internal/product/repository"
	"github.com/smallbiznis/policyhub/internal/resolution/engine"
	specdomain "github.com/smallbiznis/policyhub/internal/spec/domain"
	specrepository "github.com/smallbiznis/policyhub/internal/spec/repository"
	specgroupdomain "github.com/smallbiznis/policyhub/internal/specgroup/domain"
	specgrouprepository "github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// File is the catalog fixture format.
type File struct {
	Insurers []InsurerEntry `mapstructure:"insurers"`
	Groups   []GroupEntry   `mapstructure:"groups"`
	Specs    []SpecEntry    `mapstructure:"specs"`
}

type InsurerEntry struct {
	Name     string         `mapstructure:"name"`
	Products []ProductEntry `mapstructure:"products"`
}

type ProductEntry struct {
	Name       string `mapstructure:"name"`
	SPSolution bool   `mapstructure:"spsolution"`
	Active     *bool  `mapstructure:"active"`
}

type GroupEntry struct {
	Name    string   `mapstructure:"name"`
	Choices []string `mapstructure:"choices"`
}

type SpecEntry struct {
	Shortname    string       `mapstructure:"shortname"`
	Description  string       `mapstructure:"description"`
	DefaultValue string       `mapstructure:"default_value"`
	ValueType    string       `mapstructure:"value_type"`
	MinValue     *float64     `mapstructure:"min_value"`
	MaxValue     *float64     `mapstructure:"max_value"`
	Editable     bool         `mapstructure:"editable"`
	Group        string       `mapstructure:"group"`
	Values       []ValueEntry `mapstructure:"values"`
}

// ValueEntry names the choice by name within the spec's group.
type ValueEntry struct {
	Choice string `mapstructure:"choice"`
	Value  string `mapstructure:"value"`
}

// Stats counts the records a run created.
type Stats struct {
	Insurers int
	Products int
	Groups   int
	Choices  int
	Specs    int
	Values   int
}

// Load reads a seed file. Any format viper understands is accepted.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var file File
	if err := v.Unmarshal(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

type seeder struct {
	node     *snowflake.Node
	insurers insurerdomain.Repository
	products productdomain.Repository
	groups   specgroupdomain.Repository
	choices  groupchoicedomain.Repository
	specs    specdomain.Repository
	stats    Stats
}

// Apply creates every entry of file that is not already stored, matching
// existing records by name. It runs in one transaction.
func Apply(ctx context.Context, db *gorm.DB, node *snowflake.Node, file *File) (Stats, error) {
	if db == nil {
		return Stats{}, errors.New("seed database handle is required")
	}
	if node == nil {
		return Stats{}, errors.New("seed id generator is required")
	}
	if file == nil {
		return Stats{}, nil
	}

	s := &seeder{
		node:     node,
		insurers: insurerrepository.Provide(),
		products: productrepository.Provide(),
		groups:   specgrouprepository.Provide(),
		choices:  groupchoicerepository.Provide(),
		specs:    specrepository.Provide(),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range file.Insurers {
			if err := s.ensureInsurer(ctx, tx, entry); err != nil {
				return err
			}
		}

		groupIDs := make(map[string]int64, len(file.Groups))
		for _, entry := range file.Groups {
			id, err := s.ensureGroup(ctx, tx, entry)
			if err != nil {
				return err
			}
			groupIDs[strings.TrimSpace(entry.Name)] = id
		}

		for _, entry := range file.Specs {
			if err := s.ensureSpec(ctx, tx, entry, groupIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return s.stats, nil
}

func (s *seeder) ensureInsurer(ctx context.Context, tx *gorm.DB, entry InsurerEntry) error {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return errors.New("seed insurer name is required")
	}

	insurer, err := s.insurers.FindByName(ctx, tx, name)
	if err != nil {
		return err
	}
	if insurer == nil {
		insurer = &insurerdomain.Insurer{ID: s.node.Generate().Int64(), Name: name}
		if err := s.insurers.Create(ctx, tx, insurer); err != nil {
			return err
		}
		s.stats.Insurers++
	}

	for _, item := range entry.Products {
		productName := strings.TrimSpace(item.Name)
		if productName == "" {
			return fmt.Errorf("seed product name is required for insurer %q", name)
		}
		existing, err := s.products.FindByName(ctx, tx, insurer.ID, productName)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		active := true
		if item.Active != nil {
			active = *item.Active
		}
		product := &productdomain.Product{
			ID:         s.node.Generate().Int64(),
			Name:       productName,
			InsurerID:  insurer.ID,
			SPSolution: item.SPSolution,
			Active:     active,
		}
		if err := s.products.Create(ctx, tx, product); err != nil {
			return err
		}
		s.stats.Products++
	}
	return nil
}

func (s *seeder) ensureGroup(ctx context.Context, tx *gorm.DB, entry GroupEntry) (int64, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return 0, errors.New("seed group name is required")
	}

	group, err := s.groups.FindByName(ctx, tx, name)
	if err != nil {
		return 0, err
	}
	if group == nil {
		group = &specgroupdomain.SpecGroup{ID: s.node.Generate().Int64(), Name: name}
		if err := s.groups.Create(ctx, tx, group); err != nil {
			return 0, err
		}
		s.stats.Groups++
	}

	for _, raw := range entry.Choices {
		choiceName := strings.TrimSpace(raw)
		if choiceName == "" {
			return 0, fmt.Errorf("seed choice name is required for group %q", name)
		}
		existing, err := s.choices.FindChoiceByName(ctx, tx, group.ID, choiceName)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			continue
		}
		choice := &groupchoicedomain.GroupChoice{
			ID:          s.node.Generate().Int64(),
			SpecGroupID: group.ID,
			ChoiceName:  choiceName,
		}
		if err := s.choices.CreateChoice(ctx, tx, choice); err != nil {
			return 0, err
		}
		s.stats.Choices++
	}
	return group.ID, nil
}

func (s *seeder) ensureSpec(ctx context.Context, tx *gorm.DB, entry SpecEntry, groupIDs map[string]int64) error {
	shortname := strings.TrimSpace(entry.Shortname)
	if shortname == "" {
		return errors.New("seed spec shortname is required")
	}
	rawType := entry.ValueType
	if strings.TrimSpace(rawType) == "" {
		rawType = string(specdomain.ValueTypeText)
	}
	valueType, ok := specdomain.ParseValueType(rawType)
	if !ok {
		return fmt.Errorf("seed spec %q has invalid value type %q", shortname, entry.ValueType)
	}

	var groupID *int64
	if name := strings.TrimSpace(entry.Group); name != "" {
		id, ok := groupIDs[name]
		if !ok {
			return fmt.Errorf("seed spec %q references unknown group %q", shortname, name)
		}
		groupID = &id
	}
	if groupID == nil && len(entry.Values) > 0 {
		return fmt.Errorf("seed spec %q has choice values but no group", shortname)
	}

	spec, err := s.specs.FindByShortname(ctx, tx, shortname)
	if err != nil {
		return err
	}
	if spec == nil {
		spec = &specdomain.Spec{
			ID:           s.node.Generate().Int64(),
			Shortname:    shortname,
			Description:  strings.TrimSpace(entry.Description),
			DefaultValue: entry.DefaultValue,
			ValueType:    valueType,
			MinValue:     entry.MinValue,
			MaxValue:     entry.MaxValue,
			Editable:     entry.Editable,
			GroupID:      groupID,
		}
		if err := s.specs.Create(ctx, tx, spec); err != nil {
			return err
		}
		s.stats.Specs++
	}

	for _, item := range entry.Values {
		if spec.GroupID == nil {
			return fmt.Errorf("seed spec %q is stored without a group", shortname)
		}
		choice, err := s.choices.FindChoiceByName(ctx, tx, *spec.GroupID, strings.TrimSpace(item.Choice))
		if err != nil {
			return err
		}
		if choice == nil {
			return fmt.Errorf("seed spec %q references unknown choice %q", shortname, item.Choice)
		}
		if err := engine.Validate(*spec, item.Value); err != nil {
			return err
		}

		existing, err := s.choices.FindValue(ctx, tx, choice.ID, spec.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		value := &groupchoicedomain.GroupChoiceValue{ChoiceID: choice.ID, SpecID: spec.ID, Value: item.Value}
		if err := s.choices.CreateValue(ctx, tx, value); err != nil {
			return err
		}
		s.stats.Values++
	}
	return nil
}
