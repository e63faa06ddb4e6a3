package window

import "github.com/Carmen-Shannon/oxy-frost/common"

const defaultTitle = "oxy-frost"

// Config holds window creation settings shared by every Window implementation.
type Config struct {
	Title     string
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// NewConfig returns the default window configuration with options applied.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Config: the resolved configuration
func NewConfig(options ...WindowBuilderOption) Config {
	c := Config{
		Title:     defaultTitle,
		MaxWidth:  3840,
		MaxHeight: 2160,
		MinWidth:  320,
		MinHeight: 240,
		Width:     1280,
		Height:    720,
	}
	for _, opt := range options {
		opt(&c)
	}
	c.Title = common.Coalesce(c.Title, defaultTitle)
	return c
}

// WindowBuilderOption is a functional option for configuring a window Config.
// Use the With* functions to create options.
type WindowBuilderOption func(c *Config)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(c *Config) {
		c.Title = title
	}
}

// WithMaxWidth sets the maximum allowed window width.
//
// Parameters:
//   - maxWidth: maximum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(c *Config) {
		c.MaxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height.
//
// Parameters:
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(c *Config) {
		c.MaxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(c *Config) {
		c.MinWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(c *Config) {
		c.MinHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(c *Config) {
		c.Width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(c *Config) {
		c.Height = height
	}
}
