package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/item-piles/internal/notify"
	"golang.org/x/text/language"
)

type NotificationConfig struct {
	// Width wraps messages; 0 uses notify.DefaultWidth, negative disables wrapping
	Width    int    `json:"width"`
	Language string `json:"language"`

	// Templates override the message template per notice kind (e.g., "items.added")
	Templates map[string]string `json:"templates"`
}

func (c *NotificationConfig) validate() error {
	el := errors.NewErrorList()

	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			el.Add(fmt.Errorf("parsing language: %w", err))
		}
	}

	for kind := range c.Templates {
		if _, ok := notify.DefaultTemplates[kind]; !ok {
			el.Add(fmt.Errorf("unknown notice kind %q", kind))
		}
	}

	return el.Err()
}

func (c *NotificationConfig) buildFormatter() (*notify.Formatter, error) {
	var opts []notify.FormatterOpt
	if c.Width != 0 {
		opts = append(opts, notify.WithWidth(c.Width))
	}
	if c.Language != "" {
		tag, err := language.Parse(c.Language)
		if err != nil {
			return nil, fmt.Errorf("parsing language: %w", err)
		}
		opts = append(opts, notify.WithLanguage(tag))
	}
	for kind, tmpl := range c.Templates {
		opts = append(opts, notify.WithTemplate(kind, tmpl))
	}

	return notify.NewFormatter(opts...)
}
