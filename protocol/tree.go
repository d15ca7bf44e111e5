package protocol

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/swarmsync/errors"
	"github.com/c360/swarmsync/orchestration"
)

//go:embed tree_schema.json
var treeSchemaJSON []byte

// Compiled once per process; the embedded schema cannot change at runtime.
var loadTreeSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(treeSchemaJSON))
})

// DecodeTree validates and decodes an abmcts_tree_update payload.
//
// Validation fails closed: the payload must pass the embedded JSON schema,
// the root must sit at depth 0, every node must carry an id, and every
// child's depth must be its parent's depth plus one. A violation returns an
// Invalid-class error and no tree, so the caller keeps its previous snapshot
// instead of installing a corrupt one.
func DecodeTree(data json.RawMessage) (*orchestration.DecisionNode, error) {
	schema, err := loadTreeSchema()
	if err != nil {
		return nil, errors.WrapFatal(err, "protocol", "DecodeTree", "compile tree schema")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeTree", "validate tree snapshot")
	}
	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			detail += fmt.Sprintf("  - %s: %s\n", desc.Field(), desc.Description())
		}
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w:\n%s", errors.ErrSchemaViolation, detail),
			"protocol",
			"DecodeTree",
			"validate tree snapshot",
		)
	}

	var root orchestration.DecisionNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeTree", "unmarshal tree snapshot")
	}

	if root.Depth != 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: root at depth %d, want 0", errors.ErrMalformedTree, root.Depth),
			"protocol",
			"DecodeTree",
			"check tree shape",
		)
	}
	if err := checkTreeShape(&root); err != nil {
		return nil, errors.WrapInvalid(err, "protocol", "DecodeTree", "check tree shape")
	}

	return &root, nil
}

// checkTreeShape enforces the structural invariants the schema cannot
// express: id presence on every node and the parent/child depth law.
func checkTreeShape(node *orchestration.DecisionNode) error {
	if node.ID == "" {
		return fmt.Errorf("%w: node at depth %d missing id", errors.ErrMalformedTree, node.Depth)
	}

	for _, child := range node.Children {
		if child == nil {
			return fmt.Errorf("%w: node %s has a null child", errors.ErrMalformedTree, node.ID)
		}
		if child.Depth != node.Depth+1 {
			return fmt.Errorf("%w: node %s at depth %d has child %s at depth %d",
				errors.ErrMalformedTree, node.ID, node.Depth, child.ID, child.Depth)
		}
		if err := checkTreeShape(child); err != nil {
			return err
		}
	}

	return nil
}
