package template

import (
	_ "embed"
	"fmt"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gopkg.in/yaml.v2"
)

const (
	DefaultTemplate = "default"
	// 冒烟测试找不到模板时用这个
	DefaultSampleTemplate = "social"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Resolver 模板名到按钮列表的映射，结果是确定的，没有副作用
type Resolver interface {
	// Resolve 未知模板退回 default，不报错
	Resolve(name string) []domain.ActionDescriptor
	// Sample 返回冒烟测试用的固定请求，未知模板退回 social
	Sample(name string) domain.DispatchRequest
	// SampleNames 有固定请求的模板
	SampleNames() []string
}

type templateConfig struct {
	Name    string                    `yaml:"name"`
	Actions []domain.ActionDescriptor `yaml:"actions"`
}

type sampleConfig struct {
	Template           string         `yaml:"template"`
	Title              string         `yaml:"title"`
	Body               string         `yaml:"body"`
	Image              string         `yaml:"image"`
	RequireInteraction bool           `yaml:"requireInteraction"`
	Vibrate            []int          `yaml:"vibrate"`
	Data               map[string]any `yaml:"data"`
}

type catalogConfig struct {
	Templates []templateConfig `yaml:"templates"`
	Samples   []sampleConfig   `yaml:"samples"`
}

type catalog struct {
	templates   map[string][]domain.ActionDescriptor
	sampleNames []string
	samples     map[string]sampleConfig
}

// NewResolver 使用内置的模板
func NewResolver() Resolver {
	r, err := NewResolverFromYAML(builtinCatalog)
	if err != nil {
		panic(err)
	}
	return r
}

// NewResolverFromYAML 解析模板配置，必须包含 default 模板
func NewResolverFromYAML(data []byte) (Resolver, error) {
	var cfg catalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析模板配置失败: %w", err)
	}
	c := &catalog{
		templates: make(map[string][]domain.ActionDescriptor, len(cfg.Templates)),
		samples:   make(map[string]sampleConfig, len(cfg.Samples)),
	}
	for _, t := range cfg.Templates {
		if _, ok := c.templates[t.Name]; ok {
			return nil, fmt.Errorf("模板重复定义: %s", t.Name)
		}
		c.templates[t.Name] = t.Actions
	}
	if _, ok := c.templates[DefaultTemplate]; !ok {
		return nil, fmt.Errorf("缺少 %s 模板", DefaultTemplate)
	}
	for _, s := range cfg.Samples {
		c.sampleNames = append(c.sampleNames, s.Template)
		c.samples[s.Template] = s
	}
	return c, nil
}

func (c *catalog) Resolve(name string) []domain.ActionDescriptor {
	actions, ok := c.templates[name]
	if !ok {
		actions = c.templates[DefaultTemplate]
	}
	// 返回副本，调用方截断或者修改都不影响模板本身
	res := make([]domain.ActionDescriptor, len(actions))
	copy(res, actions)
	return res
}

func (c *catalog) SampleNames() []string {
	res := make([]string, len(c.sampleNames))
	copy(res, c.sampleNames)
	return res
}

func (c *catalog) Sample(name string) domain.DispatchRequest {
	s, ok := c.samples[name]
	if !ok {
		s = c.samples[DefaultSampleTemplate]
	}
	data := make(map[string]any, len(s.Data)+2)
	for k, v := range s.Data {
		data[k] = v
	}
	data["isTest"] = true
	data["template"] = name
	var vibrate []int
	if len(s.Vibrate) > 0 {
		vibrate = append(vibrate, s.Vibrate...)
	}
	return domain.DispatchRequest{
		Title:              s.Title,
		Body:               s.Body,
		Template:           s.Template,
		Image:              s.Image,
		RequireInteraction: s.RequireInteraction,
		Vibrate:            vibrate,
		Data:               data,
	}
}
