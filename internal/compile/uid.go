package compile

import (
	"fmt"
	"path"
	"strconv"

	"github.com/seclattice/taxonomy/internal/merge"
	"github.com/seclattice/taxonomy/record"
)

// UidOp computes an event's class_uid from its extension, category, and
// declared uid, and synthesizes the category_uid, class_uid, and type_uid
// enums.
type UidOp struct {
	operation
}

func (op UidOp) Apply(proto *Proto) ([]merge.Path, error) {
	target, err := proto.Get(op.target)
	if err != nil {
		return nil, err
	}
	defn, ok := target.Data.(*record.Event)
	if !ok {
		return nil, fmt.Errorf("%s is not an event", op.target)
	}

	enums := &record.Event{Attributes: map[string]*record.Attr{}}

	extnUID := 0
	if defn.SrcExtension != nil {
		extnPath, err := proto.FindExtensionPath(*defn.SrcExtension)
		if err != nil {
			return nil, fmt.Errorf("extension for %s: %w", op.target, err)
		}
		marker, err := proto.Get(path.Join(extnPath, record.FileExtension))
		if err != nil {
			return nil, err
		}
		if ext, ok := marker.Data.(*record.Extension); ok && ext.UID != nil {
			extnUID = *ext.UID
		}
	}

	catUID := 0
	if defn.Category != nil {
		catFile, err := proto.Get(op.prereq)
		if err != nil {
			return nil, err
		}
		cats, ok := catFile.Data.(*record.Categories)
		if !ok {
			return nil, fmt.Errorf("%s is not a category list", op.prereq)
		}
		if cats.Attributes == nil {
			return nil, nil
		}
		if cat, ok := cats.Attributes[*defn.Category]; ok {
			if cat.UID == nil {
				return nil, fmt.Errorf("category %s has no uid", *defn.Category)
			}
			catUID = *cat.UID
			enums.Attributes["category_uid"] = &record.Attr{
				Enum: map[string]*record.EnumMember{
					strconv.Itoa(catUID): {Caption: cat.Caption, Description: cat.Description},
				},
			}
		}
	}

	classUID := 0
	if defn.UID != nil {
		classUID = extnUID*100000 + catUID*1000 + *defn.UID
		enums.UID = &classUID
	} else if defn.Name != nil && *defn.Name == "base_event" {
		zero := 0
		enums.UID = &zero
	}

	enums.Attributes["class_uid"] = &record.Attr{
		Enum: map[string]*record.EnumMember{
			strconv.Itoa(classUID): {Caption: defn.Caption, Description: defn.Description},
		},
	}

	if activity, ok := defn.Attributes["activity_id"]; ok && activity.Enum != nil {
		attr := &record.Attr{Enum: map[string]*record.EnumMember{}}
		for _, key := range sortedKeys(activity.Enum) {
			id, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("activity_id enum key %q in %s: %w", key, op.target, err)
			}
			member := activity.Enum[key]
			caption := fmt.Sprintf("%s: %s", str(defn.Caption), str(member.Caption))
			attr.Enum[strconv.Itoa(classUID*100+id)] = &record.EnumMember{
				Caption:     &caption,
				Description: member.Description,
			}
		}
		enums.Attributes["type_uid"] = attr
	}

	// Inherited enum members from the base event would collide with the
	// synthesized ones.
	if defn.Name == nil || *defn.Name != "base_event" {
		for _, name := range []string{"class_uid", "category_uid", "type_uid"} {
			if attr, ok := defn.Attributes[name]; ok {
				attr.Enum = map[string]*record.EnumMember{}
			}
		}
	}

	return merge.Records(defn, enums, merge.Options{
		Overwrite: true,
		AllowedFields: []merge.Path{
			{"uid"},
			{"attributes", "category_uid"},
			{"attributes", "class_uid"},
			{"attributes", "type_uid"},
		},
	}), nil
}

// UidPlanner computes uids and uid enums for every event.
type UidPlanner struct{}

func (UidPlanner) Analyze(file *record.File) ([]Operation, error) {
	if _, ok := file.Data.(*record.Event); !ok {
		return nil, nil
	}
	return []Operation{UidOp{operation{target: file.Path, prereq: record.FileCategories}}}, nil
}
