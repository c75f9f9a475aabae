package document

import (
	"encoding/xml"
	"fmt"
	"io/ioutil"
)

// Prefs is the ruleset a process document is validated against
type Prefs struct {
	XMLName       xml.Name       `xml:"Preferences"`
	MetadataTypes []MetadataType `xml:"MetadataType"`
}

// MetadataType is a metadata definition of the ruleset
type MetadataType struct {
	Name   string  `xml:"Name"`
	Labels []Label `xml:"language"`
}

// Label is a translated display name of a metadata type
type Label struct {
	Lang  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// LoadPrefs parses a ruleset file
func LoadPrefs(fileName string) (*Prefs, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("Unable to read ruleset %s: %s", fileName, err.Error())
	}
	prefs := &Prefs{}
	if err := xml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("Unable to parse ruleset %s: %s", fileName, err.Error())
	}
	return prefs, nil
}

// MetadataTypeByName returns the metadata type name for a configured field name.
// The field may be given as the internal name or as one of its translated labels.
func (p *Prefs) MetadataTypeByName(name string) (string, bool) {
	for _, t := range p.MetadataTypes {
		if t.Name == name {
			return t.Name, true
		}
	}
	for _, t := range p.MetadataTypes {
		for _, label := range t.Labels {
			if label.Value == name {
				return t.Name, true
			}
		}
	}
	return "", false
}
