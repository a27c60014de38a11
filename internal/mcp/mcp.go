// Package mcp exposes the controller over the Model Context Protocol, so
// any MCP client can act as the rendering layer: it sets parameters, reads
// the cache, and manages presets through the same core API a GUI would use.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wavekit/synthdeck/internal/param"
	"github.com/wavekit/synthdeck/internal/preset"
	"github.com/wavekit/synthdeck/internal/session"
)

// Serve runs the MCP server over stdio until the client disconnects.
func Serve(sess *session.Session, repo *preset.Repository) error {
	s := server.NewMCPServer(
		"synthdeck",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	panels := param.Panels()

	setTool := mcp.NewTool("synth_set-parameter",
		mcp.WithDescription("Sets one synthesizer parameter by control-change address."),
		mcp.WithNumber("address", mcp.Required(), mcp.Description("The CC address (0-127).")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("The raw value (0-127).")),
	)
	s.AddTool(setTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		addr, err := request.RequireInt("address")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		value, err := request.RequireInt("value")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if addr < 0 || addr > param.DomainMax || value < 0 || value > param.DomainMax {
			return mcp.NewToolResultError("address and value must be 0-127"), nil
		}

		log.Printf("[mcp] set parameter %d = %d", addr, value)

		if err := sess.Store.Write(param.Address(addr), uint8(value)); err != nil {
			return nil, fmt.Errorf("failed to set parameter: %v", err)
		}

		if d, ok := param.FindDescriptor(panels, param.Address(addr)); ok {
			return mcp.NewToolResultText(fmt.Sprintf("%s = %s", d.Name, d.Format(uint8(value)))), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("parameter %d = %d", addr, value)), nil
	})

	getTool := mcp.NewTool("synth_get-parameter",
		mcp.WithDescription("Returns the last value written to a parameter. The device cannot be queried, so parameters never written report unknown."),
		mcp.WithNumber("address", mcp.Required(), mcp.Description("The CC address (0-127).")),
	)
	s.AddTool(getTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		addr, err := request.RequireInt("address")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		v := sess.Store.CachedValue(param.Address(addr))
		if !v.Known {
			return mcp.NewToolResultText(fmt.Sprintf("parameter %d: unknown (never set)", addr)), nil
		}
		if d, ok := param.FindDescriptor(panels, param.Address(addr)); ok {
			return mcp.NewToolResultText(fmt.Sprintf("%s = %s (raw %d)", d.Name, d.Format(v.Raw), v.Raw)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("parameter %d = %d", addr, v.Raw)), nil
	})

	panelsTool := mcp.NewTool("synth_list-panels",
		mcp.WithDescription("Lists all control panels with addresses, ranges and current cached values."),
	)
	s.AddTool(panelsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type control struct {
			Name    string `json:"name"`
			Address int    `json:"address"`
			Min     int    `json:"min"`
			Max     int    `json:"max"`
			Default int    `json:"default"`
			Value   string `json:"value"`
		}
		type panelOut struct {
			Name     string    `json:"name"`
			Controls []control `json:"controls"`
		}

		var out []panelOut
		for _, p := range panels {
			po := panelOut{Name: p.Name}
			for _, d := range p.Controls {
				c := control{Name: d.Name, Address: int(d.Address), Min: d.Min, Max: d.Max, Default: d.Default, Value: "unknown"}
				if v := sess.Store.CachedValue(d.Address); v.Known {
					c.Value = d.Format(v.Raw)
				}
				po.Controls = append(po.Controls, c)
			}
			out = append(out, po)
		}

		asJson, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal panels: %v", err)
		}
		return mcp.NewToolResultText(string(asJson)), nil
	})

	logTool := mcp.NewTool("synth_message-log",
		mcp.WithDescription("Returns the recent wire traffic, oldest first."),
	)
	s.AddTool(logTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := sess.Log.Snapshot()
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("%s %-8s % X", e.At.Format("15:04:05.000"), e.Direction, e.Raw))
		}
		asJson, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal log: %v", err)
		}
		return mcp.NewToolResultText(string(asJson)), nil
	})

	saveTool := mcp.NewTool("synth_save-preset",
		mcp.WithDescription("Saves every parameter with a known value as a named preset. Parameters never touched are omitted."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Preset name; an existing preset with the same name is overwritten.")),
	)
	s.AddTool(saveTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		values := sess.Store.KnownValues()
		if err := repo.Save(name, values); err != nil {
			return nil, fmt.Errorf("failed to save preset: %v", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("saved %q with %d parameters", name, len(values))), nil
	})

	loadTool := mcp.NewTool("synth_load-preset",
		mcp.WithDescription("Loads a named preset and applies it to the device. Individual write failures are reported but do not abort the rest."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Preset name.")),
	)
	s.AddTool(loadTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		values, ok, err := repo.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset: %v", err)
		}
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("no preset named %q", name)), nil
		}

		failed := preset.Apply(sess.Store, values)
		if len(failed) > 0 {
			msg := fmt.Sprintf("applied %d of %d parameters; failed:", len(values)-len(failed), len(values))
			for _, f := range failed {
				msg += fmt.Sprintf(" %d (%v)", f.Address, f.Err)
			}
			return mcp.NewToolResultText(msg), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("applied %q (%d parameters)", name, len(values))), nil
	})

	listTool := mcp.NewTool("synth_list-presets",
		mcp.WithDescription("Lists stored preset names."),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := repo.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list presets: %v", err)
		}
		asJson, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal names: %v", err)
		}
		return mcp.NewToolResultText(string(asJson)), nil
	})

	deleteTool := mcp.NewTool("synth_delete-preset",
		mcp.WithDescription("Deletes a stored preset. Deleting an absent name is a no-op."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Preset name.")),
	)
	s.AddTool(deleteTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := repo.Delete(name); err != nil {
			return nil, fmt.Errorf("failed to delete preset: %v", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("deleted %q", name)), nil
	})

	log.Println("Starting synthdeck MCP server...")
	return server.ServeStdio(s)
}
