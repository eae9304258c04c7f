package exporter

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/facsched/backend/core/timetable"
)

type (
	yamlClass struct {
		Code       string `yaml:"code"`
		Room       string `yaml:"room,omitempty"`
		Instructor string `yaml:"instructor,omitempty"`
		Color      string `yaml:"color,omitempty"`
	}

	yamlSlot struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	}

	yamlDay struct {
		Theory []*yamlClass `yaml:"theory"`
		Lab    []*yamlClass `yaml:"lab"`
	}

	yamlTimetable struct {
		TheorySlots []yamlSlot `yaml:"theory_slots"`
		LabSlots    []yamlSlot `yaml:"lab_slots"`
		Days        yaml.Node  `yaml:"days"` // mapping node, keeps the day order
	}
)

func toYAMLSlots(slots []timetable.TimeSlot) []yamlSlot {
	out := make([]yamlSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, yamlSlot{Start: s.Start, End: s.End})
	}
	return out
}

func toYAMLClasses(cells []*timetable.ClassInfo) []*yamlClass {
	out := make([]*yamlClass, len(cells))
	for i, c := range cells {
		if c != nil {
			out[i] = &yamlClass{Code: c.Code, Room: c.Room, Instructor: c.Instructor, Color: c.Color}
		}
	}
	return out
}

// WriteYAML writes the timetable as YAML, keys named as in its JSON encoding.
func WriteYAML(w io.Writer, tt *timetable.Timetable) error {
	doc := yamlTimetable{
		TheorySlots: toYAMLSlots(tt.TheorySlots),
		LabSlots:    toYAMLSlots(tt.LabSlots),
		Days:        yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
	}
	for _, d := range tt.Days {
		var val yaml.Node
		if err := val.Encode(yamlDay{Theory: toYAMLClasses(d.Theory), Lab: toYAMLClasses(d.Lab)}); err != nil {
			return errors.Wrapf(err, "encoding day %q", d.Name)
		}
		key := yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Name}
		doc.Days.Content = append(doc.Days.Content, &key, &val)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding timetable")
	}
	return errors.Wrap(enc.Close(), "encoding timetable")
}

// WriteJSON writes the timetable as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}
