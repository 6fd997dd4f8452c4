package compile

import (
	"fmt"
	"path"
	"strings"

	"github.com/seclattice/taxonomy/record"
	"github.com/seclattice/taxonomy/schema"
)

// Schema materializes the resolved schema from the working copies, walking
// every known path and assembling the output maps by path prefix.
func (p *Proto) Schema() (*schema.Schema, error) {
	out := &schema.Schema{
		Version: "0.0.0",
		Classes: make(map[string]*schema.Event),
		Objects: make(map[string]*schema.Object),
		Types:   make(map[string]*schema.Type),
	}

	for _, pth := range p.Paths() {
		file, err := p.Get(pth)
		if err != nil {
			return nil, err
		}
		if err := p.materialize(out, file); err != nil {
			return nil, fmt.Errorf("materialize %s: %w", pth, err)
		}
	}

	if base, ok := out.Classes["base_event"]; ok {
		out.BaseEvent = base
	} else if base, ok := out.Classes["base"]; ok {
		out.BaseEvent = base
	}

	return out, nil
}

func (p *Proto) materialize(out *schema.Schema, file *record.File) error {
	switch {
	case strings.HasPrefix(file.Path, record.DirObjects+"/"):
		data, ok := file.Data.(*record.Object)
		if !ok {
			return fmt.Errorf("expected an object definition")
		}
		key := record.Key(data)
		if key == nil {
			return fmt.Errorf("object has no name")
		}
		if !strings.HasPrefix(*key, "_") {
			out.Objects[*key] = convertObject(data)
		}

	case strings.HasPrefix(file.Path, record.DirEvents+"/"):
		data, ok := file.Data.(*record.Event)
		if !ok {
			return fmt.Errorf("expected an event definition")
		}
		if data.UID == nil && (data.Name == nil || *data.Name != "base_event") {
			return nil
		}
		key := record.Key(data)
		if key == nil {
			return fmt.Errorf("event has no name")
		}
		out.Classes[*key] = convertEvent(data)

	case strings.HasPrefix(file.Path, record.DirProfiles+"/"):
		data, ok := file.Data.(*record.Profile)
		if !ok {
			return fmt.Errorf("expected a profile definition")
		}
		key := record.Key(data)
		if key == nil {
			return fmt.Errorf("profile has no name")
		}
		if out.Profiles == nil {
			out.Profiles = make(map[string]*schema.Profile)
		}
		out.Profiles[*key] = convertProfile(data)

	case path.Base(file.Path) == record.FileExtension && record.ExtensionDir(file.Path) != "":
		data, ok := file.Data.(*record.Extension)
		if !ok {
			return fmt.Errorf("expected an extension definition")
		}
		if data.Name == nil {
			return fmt.Errorf("extension has no name")
		}
		if out.Extensions == nil {
			out.Extensions = make(map[string]*schema.Extension)
		}
		out.Extensions[*data.Name] = convertExtension(data)

	case file.Path == record.FileDictionary:
		data, ok := file.Data.(*record.Dictionary)
		if !ok {
			return fmt.Errorf("expected a dictionary definition")
		}
		if data.Types == nil {
			return nil
		}
		for name, typ := range data.Types.Attributes {
			out.Types[name] = convertType(typ)
		}

	case file.Path == record.FileVersion:
		data, ok := file.Data.(*record.Version)
		if !ok {
			return fmt.Errorf("expected a version definition")
		}
		if data.Version != nil {
			out.Version = *data.Version
		}

	case file.Path == record.FileCategories:
		data, ok := file.Data.(*record.Categories)
		if !ok {
			return fmt.Errorf("expected a categories definition")
		}
		if out.Categories == nil && len(data.Attributes) > 0 {
			out.Categories = make(map[string]*schema.Category)
		}
		for name, cat := range data.Attributes {
			out.Categories[name] = convertCategory(name, cat)
		}
	}

	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func convertDeprecation(d *record.DeprecationInfo) *schema.DeprecationInfo {
	if d == nil {
		return nil
	}
	return &schema.DeprecationInfo{Message: str(d.Message), Since: str(d.Since)}
}

func convertEnum(enum map[string]*record.EnumMember) map[string]*schema.EnumMember {
	if len(enum) == 0 {
		return nil
	}
	out := make(map[string]*schema.EnumMember, len(enum))
	for key, member := range enum {
		out[key] = &schema.EnumMember{
			Caption:     str(member.Caption),
			Description: member.Description,
			Notes:       member.Notes,
		}
	}
	return out
}

func convertAttr(attr *record.Attr) *schema.Attr {
	out := &schema.Attr{
		Caption:     str(attr.Caption),
		Requirement: str(attr.Requirement),
		Type:        str(attr.Type),
		Description: attr.Description,
		Deprecated:  convertDeprecation(attr.Deprecated),
		Enum:        convertEnum(attr.Enum),
		Group:       attr.Group,
		Observable:  attr.Observable,
		Profile:     attr.Profile,
		Sibling:     attr.Sibling,
		ObjectType:  attr.ObjectType,
		ObjectName:  attr.ObjectName,
	}
	if attr.IsArray != nil {
		out.IsArray = *attr.IsArray
	}
	return out
}

func convertAttrs(attrs map[string]*record.Attr) map[string]*schema.Attr {
	if attrs == nil {
		return nil
	}
	out := make(map[string]*schema.Attr, len(attrs))
	for name, attr := range attrs {
		out[name] = convertAttr(attr)
	}
	return out
}

func convertObject(obj *record.Object) *schema.Object {
	out := &schema.Object{
		Caption:     str(obj.Caption),
		Name:        str(obj.Name),
		Description: obj.Description,
		Attributes:  convertAttrs(obj.Attributes),
		Extends:     obj.Extends,
		Observable:  obj.Observable,
		Profiles:    obj.Profiles,
		Constraints: obj.Constraints,
		Deprecated:  convertDeprecation(obj.Deprecated),
	}
	if out.Attributes == nil {
		out.Attributes = make(map[string]*schema.Attr)
	}
	return out
}

func convertEvent(event *record.Event) *schema.Event {
	return &schema.Event{
		Caption:      str(event.Caption),
		Name:         str(event.Name),
		Attributes:   convertAttrs(event.Attributes),
		Description:  event.Description,
		UID:          event.UID,
		Category:     event.Category,
		Extends:      event.Extends,
		Profiles:     event.Profiles,
		Associations: event.Associations,
		Constraints:  event.Constraints,
		Deprecated:   convertDeprecation(event.Deprecated),
	}
}

func convertProfile(profile *record.Profile) *schema.Profile {
	return &schema.Profile{
		Caption:     str(profile.Caption),
		Name:        str(profile.Name),
		Meta:        profile.Meta,
		Description: profile.Description,
		Attributes:  convertAttrs(profile.Attributes),
		Deprecated:  convertDeprecation(profile.Deprecated),
	}
}

func convertExtension(ext *record.Extension) *schema.Extension {
	out := &schema.Extension{
		Name:        str(ext.Name),
		Caption:     str(ext.Caption),
		Version:     ext.Version,
		Description: ext.Description,
		Deprecated:  convertDeprecation(ext.Deprecated),
	}
	if ext.UID != nil {
		out.UID = *ext.UID
	}
	return out
}

func convertType(typ *record.Type) *schema.Type {
	out := &schema.Type{
		Caption:     str(typ.Caption),
		Description: typ.Description,
		Deprecated:  convertDeprecation(typ.Deprecated),
		MaxLen:      typ.MaxLen,
		Observable:  typ.Observable,
		Range:       typ.Range,
		Regex:       typ.Regex,
		Type:        typ.Type,
		TypeName:    typ.TypeName,
		Values:      typ.Values,
	}
	if typ.IsArray != nil {
		out.IsArray = *typ.IsArray
	}
	return out
}

func convertCategory(name string, cat *record.Category) *schema.Category {
	out := &schema.Category{
		Caption:     str(cat.Caption),
		Name:        name,
		Description: cat.Description,
		UID:         cat.UID,
		Type:        cat.Type,
	}
	if len(cat.Classes) > 0 {
		out.Classes = make(map[string]*schema.Event, len(cat.Classes))
		for key, event := range cat.Classes {
			out.Classes[key] = convertEvent(event)
		}
	}
	return out
}
