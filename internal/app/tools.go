package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
)

// Tool is one operation of the tool boundary.
type Tool struct {
	Name        string
	Description string
	run         func(ctx context.Context, args []byte) (any, error)
}

// bind builds a Tool whose arguments decode into Req. Fields absent from the
// arguments keep the values returned by defaults.
func bind[Req any](
	name, description string,
	defaults func() Req,
	validate *validator.Validate,
	handler func(context.Context, Req) (any, error),
) Tool {
	return Tool{
		Name:        name,
		Description: description,
		run: func(ctx context.Context, args []byte) (any, error) {
			req := defaults()
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			if err := validateRequest(validate, req); err != nil {
				return nil, err
			}
			return handler(ctx, req)
		},
	}
}

func zero[Req any]() Req {
	var req Req
	return req
}

func decodeArgs(args []byte, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrInvalidInput, "malformed arguments"), "reason", err.Error())
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRequest(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Annotate(domain.ErrInvalidInput, "reason", err.Error())
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
	return zerr.With(zerr.Wrap(domain.ErrInvalidInput, msg), "field", fe.Field())
}

func (a *App) register(t Tool) {
	if a.tools == nil {
		a.tools = make(map[string]Tool)
	}
	a.tools[t.Name] = t
	a.order = append(a.order, t.Name)
}

// Tools lists the registered tools in registration order.
func (a *App) Tools() []domain.ToolInfo {
	out := make([]domain.ToolInfo, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, domain.ToolInfo{Name: name, Description: a.tools[name].Description})
	}
	return out
}

// Dispatch runs the named tool with JSON encoded arguments and returns its
// JSON encoded result. It never fails: errors and panics are reported as a
// domain.ToolFailure document.
func (a *App) Dispatch(ctx context.Context, name string, args []byte) []byte {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "tool."+name)
	defer span.End()
	span.SetAttribute("tool", name)

	result, err := a.invoke(ctx, name, args)
	outcome := "ok"
	if err != nil {
		result = a.failure(name, err)
		outcome = string(domain.KindOf(err))
		span.RecordError(err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to encode result"), "tool", name)
		outcome = string(domain.KindInternal)
		span.RecordError(err)
		out, _ = json.Marshal(a.failure(name, err))
	}

	elapsed := time.Since(start)
	a.metrics.ObserveQuery(name, outcome, elapsed)
	a.logger.Debug("tool finished", "tool", name, "outcome", outcome, "duration", elapsed.String())
	return out
}

func (a *App) invoke(ctx context.Context, name string, args []byte) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(domain.Annotate(domain.ErrInternal, "tool", name), "panic", fmt.Sprint(r))
		}
	}()

	t, ok := a.tools[name]
	if !ok {
		return nil, domain.Annotate(domain.ErrUnknownTool, "tool", name)
	}
	return t.run(ctx, args)
}

// failure logs err and converts it to its wire form. Internal failures are
// logged at error level and prefixed with the tool name.
func (a *App) failure(name string, err error) domain.ToolFailure {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		a.logger.Error(zerr.With(zerr.Wrap(err, "tool failed"), "tool", name))
		return domain.ToolFailure{Error: name + " failed: " + err.Error(), Kind: kind}
	}
	a.logger.Debug("tool rejected request", "tool", name, "kind", string(kind), "error", err.Error())
	return domain.ToolFailure{Error: err.Error(), Kind: kind}
}
