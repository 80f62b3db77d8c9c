// SPDX-FileCopyrightText: The weatherbar authors
//
// SPDX-License-Identifier: MIT

// Package template parses and renders the configurable fragment templates for the
// loading, success and error states of the widget.
package template

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"

	"github.com/weatherbar/weatherbar/internal/config"
)

// ErrorData is the data object for the error template.
type ErrorData struct {
	Message string
}

// Templates holds the parsed fragment templates. The clock layout used by the
// clockFormat template func follows the viewer's locale conventions.
type Templates struct {
	Loading *template.Template
	Text    *template.Template
	Tooltip *template.Template
	Error   *template.Template

	clockLayout string
}

func New(conf *config.Config) (*Templates, error) {
	tpls := new(Templates)
	tpls.clockLayout = ClockLayout(resolveLocale(conf.Locale))

	for _, item := range []struct {
		name   string
		text   string
		target **template.Template
	}{
		{"loading", conf.Templates.Loading, &tpls.Loading},
		{"text", conf.Templates.Text, &tpls.Text},
		{"tooltip", conf.Templates.Tooltip, &tpls.Tooltip},
		{"error", conf.Templates.Error, &tpls.Error},
	} {
		tpl, err := template.New(item.name).Funcs(tpls.templateFuncMap()).Parse(item.text)
		if err != nil {
			return tpls, fmt.Errorf("failed to parse %s template: %w", item.name, err)
		}
		*item.target = tpl
	}

	return tpls, nil
}

// Render executes the given template and returns the result as a string.
func (t *Templates) Render(tpl *template.Template, data any) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

func (t *Templates) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":  timeFormat,
		"clockFormat": t.clockFormat,
		"floatFormat": floatFormat,
		"round":       roundFloat,
		"iconPad":     EmojiWithSpace,
		"lc":          strings.ToLower,
		"uc":          strings.ToUpper,
	}
}

// clockFormat formats a time value as an hour:minute display in the viewer's clock
// convention.
func (t *Templates) clockFormat(val time.Time) string {
	return val.Format(t.clockLayout)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

func roundFloat(val float64) int {
	return int(math.Round(val))
}

// EmojiWithSpace pads an emoji with a space so that double-width glyphs do not
// collide with the following character in monospaced bar fonts.
func EmojiWithSpace(emoji string) string {
	width := runewidth.StringWidth(emoji)
	if width < 2 {
		return emoji
	}
	return fmt.Sprintf("%s%s", emoji, strings.Repeat(" ", width-1))
}

// twelveHourRegions lists the regions that customarily use a 12-hour clock.
var twelveHourRegions = map[string]struct{}{
	"US": {}, "CA": {}, "AU": {}, "NZ": {}, "PH": {}, "IN": {}, "PK": {}, "BD": {},
	"MY": {}, "SG": {}, "EG": {}, "SA": {}, "CO": {}, "MX": {}, "IE": {},
}

// ClockLayout returns the hour:minute layout for the given locale.
func ClockLayout(tag language.Tag) string {
	region, _ := tag.Region()
	if _, ok := twelveHourRegions[region.String()]; ok {
		return "3:04 PM"
	}
	return "15:04"
}

// resolveLocale parses the configured locale or falls back to the system locale. An
// undetectable locale ends up as the und tag, which ClockLayout maps to a 24-hour
// clock.
func resolveLocale(configured string) language.Tag {
	if configured != "" {
		if tag, err := language.Parse(configured); err == nil {
			return tag
		}
	}
	tag, err := locale.Detect()
	if err != nil {
		return language.Und
	}
	return tag
}
