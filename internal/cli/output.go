package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		o.printRegisterResult(v)
	case Roster:
		o.printRoster(v)
	case AdminLoginResult:
		o.printAdminLoginResult(v)
	case PurgeResult:
		o.PrintMessage(v.Message.Text)
	case ImportResult:
		o.PrintMessage(v.Message.Text)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Message response type (matches API)
type Message struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Assignment response type
type Assignment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Timestamp int64  `json:"timestamp"`
	Fortune   string `json:"fortune"`
}

// Roster response type
type Roster struct {
	Assignments []Assignment `json:"assignments"`
	Count       int          `json:"count"`
	Capacity    int          `json:"capacity"`
}

// RegisterResult response type
type RegisterResult struct {
	Assignment Assignment `json:"assignment"`
	Message    Message    `json:"message"`
}

// AdminLoginResult response type
type AdminLoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PurgeResult response type
type PurgeResult struct {
	Message Message `json:"message"`
}

// ImportResult response type
type ImportResult struct {
	Roster  Roster  `json:"roster"`
	Message Message `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Println(r.Message.Text)
	fmt.Printf("Name: %s\n", r.Assignment.Name)
	fmt.Printf("Number: %d\n", r.Assignment.Number)
	fmt.Printf("Fortune: %s\n", r.Assignment.Fortune)
}

func (o *Output) printRoster(r Roster) {
	fmt.Printf("Players (%d/%d):\n", r.Count, r.Capacity)
	for _, a := range r.Assignments {
		ts := time.UnixMilli(a.Timestamp).Format("2006-01-02 15:04:05")
		fmt.Printf("  %d  %-20s %s\n", a.Number, a.Name, ts)
	}
	if r.Count == 0 {
		fmt.Println("  (no players registered)")
	}
}

func (o *Output) printAdminLoginResult(a AdminLoginResult) {
	fmt.Println("Admin session established")
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
