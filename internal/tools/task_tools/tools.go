package task_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/taskfewer/internal/instrumentation"
	"github.com/teemow/taskfewer/internal/server"
	"github.com/teemow/taskfewer/internal/task"
	"github.com/teemow/taskfewer/internal/tools/common"
)

// RegisterTaskTools registers all task management tools with the MCP server.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerCreateTask(s, sc)
	registerListTasks(s, sc)
	registerGetTask(s, sc)
	registerCompleteTask(s, sc)
	registerDeleteTask(s, sc)
	return nil
}

func registerCreateTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	createTaskTool := mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task with the given title"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new task"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandler("create_task", instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))
}

func registerListTasks(s *mcpserver.MCPServer, sc *server.ServerContext) {
	listTasksTool := mcp.NewTool("list_tasks",
		mcp.WithDescription("List all tasks in storage order"),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandler("list_tasks", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))
}

func registerGetTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	getTaskTool := mcp.NewTool("get_task",
		mcp.WithDescription("Get details of a specific task"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the task to retrieve"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandler("get_task", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTask(ctx, request, sc)
		}))
}

func registerCompleteTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	completeTaskTool := mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed. Completing an already-completed task succeeds."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandler("complete_task", instrumentation.OperationComplete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompleteTask(ctx, request, sc)
		}))
}

func registerDeleteTask(s *mcpserver.MCPServer, sc *server.ServerContext) {
	deleteTaskTool := mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task permanently"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandler("delete_task", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTask(ctx, request, sc)
		}))
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// Title validation is a transport concern; the service accepts anything.
	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	t, err := sc.Service().Create(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
	}

	result, _ := json.MarshalIndent(t, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
}

func handleListTasks(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	tasks := sc.Service().List(ctx)

	if len(tasks) == 0 {
		return mcp.NewToolResultText("No tasks found"), nil
	}

	result, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Found %d task(s):\n%s", len(tasks), string(result))), nil
}

func handleGetTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := sc.Service().Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", id)), nil
	}

	result, _ := json.MarshalIndent(t, "", "  ")
	return mcp.NewToolResultText(string(result)), nil
}

func handleCompleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := sc.Service().Complete(ctx, id)
	if err != nil {
		return completeOrDeleteError("complete", id, err), nil
	}

	result, _ := json.MarshalIndent(t, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Task completed successfully:\n%s", string(result))), nil
}

func handleDeleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	t, err := sc.Service().Delete(ctx, id)
	if err != nil {
		return completeOrDeleteError("delete", id, err), nil
	}

	result, _ := json.MarshalIndent(t, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Task deleted successfully:\n%s", string(result))), nil
}

func completeOrDeleteError(verb, id string, err error) *mcp.CallToolResult {
	if errors.Is(err, task.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", id))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s task %s: %v", verb, id, err))
}
