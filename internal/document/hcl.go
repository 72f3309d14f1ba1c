package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/turbot/bqpipe/internal/perr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const documentFilename = "pipeline.hcl"

// parseHcl parses an HCL document. Top level blocks become nested mappings;
// expressions may reference var.<name> from the environment.
func parseHcl(body []byte, env Environment) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(body, documentFilename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diagsToError("invalid HCL document", diags)
	}

	vars, err := environmentToCty(env)
	if err != nil {
		return nil, err
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": vars,
		},
	}

	syntaxBody, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, perr.InternalWithMessage("unexpected HCL body type")
	}

	doc, diags := decodeBody(syntaxBody, evalCtx)
	if diags.HasErrors() {
		return nil, diagsToError("invalid HCL document", diags)
	}
	return doc, nil
}

func decodeBody(body *hclsyntax.Body, evalCtx *hcl.EvalContext) (map[string]any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	res := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, moreDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}

		goVal, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported value",
				Detail:   fmt.Sprintf("attribute %s: %s", name, err.Error()),
				Subject:  attr.SrcRange.Ptr(),
			})
			continue
		}
		res[name] = goVal
	}

	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unexpected block labels",
				Detail:   fmt.Sprintf("block %s does not take labels", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		if _, exists := res[block.Type]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate block",
				Detail:   fmt.Sprintf("%s is defined more than once", block.Type),
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}

		nested, moreDiags := decodeBody(block.Body, evalCtx)
		diags = append(diags, moreDiags...)
		res[block.Type] = nested
	}

	return res, diags
}

func environmentToCty(env Environment) (cty.Value, error) {
	if len(env) == 0 {
		return cty.EmptyObjectVal, nil
	}

	data, err := json.Marshal(env)
	if err != nil {
		return cty.NilVal, perr.ConfigurationErrorWithMessage("environment is not serialisable: " + err.Error())
	}

	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, perr.Internal(err)
	}

	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return cty.NilVal, perr.Internal(err)
	}
	return val, nil
}

func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty.IsTupleType(), ty.IsListType(), ty.IsSetType():
		res := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, item := it.Element()
			goItem, err := ctyToGo(item)
			if err != nil {
				return nil, err
			}
			res = append(res, goItem)
		}
		return res, nil

	case ty.IsMapType(), ty.IsObjectType():
		res := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, item := it.Element()
			goItem, err := ctyToGo(item)
			if err != nil {
				return nil, err
			}
			res[key.AsString()] = goItem
		}
		return res, nil
	}

	switch ty {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		var i int
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	}

	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}

func diagsToError(prefix string, diags hcl.Diagnostics) error {
	var details []*perr.ErrorDetailModel
	var messages []string
	for _, d := range diags.Errs() {
		msg := d.Error()
		location := ""
		if diag, ok := d.(*hcl.Diagnostic); ok && diag.Subject != nil {
			location = diag.Subject.String()
		}
		details = append(details, &perr.ErrorDetailModel{Message: msg, Location: location})
		messages = append(messages, msg)
	}

	err := perr.ConfigurationErrorWithMessage(prefix + ": " + strings.Join(messages, "; "))
	err.ValidationErrors = details
	return err
}
