package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatList(w io.Writer, result *ListResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatError(w io.Writer, err error) error
	FormatServers(w io.Writer, servers *Servers) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet, noColor bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet, NoColor: noColor}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
	// NoColor disables ANSI colors regardless of the terminal.
	NoColor bool
}

func (f *HumanFormatter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if f.NoColor {
		c.DisableColor()
	}
	return c
}

// FormatUpload prints one line per uploaded file. In quiet mode only the
// URLs are printed so the output can be piped.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	ok := f.paint(color.FgGreen)
	bad := f.paint(color.FgRed)

	for i := range results {
		r := &results[i]
		if r.Err != nil {
			_, _ = bad.Fprint(w, "Error: ")
			_, _ = fmt.Fprintf(w, "%s - %v\n", r.LocalPath, r.Err)
			continue
		}
		if f.Quiet {
			_, _ = fmt.Fprintln(w, r.URL)
			continue
		}
		_, _ = ok.Fprint(w, "Uploaded: ")
		_, _ = fmt.Fprintf(w, "%s -> %s (%s)\n", r.LocalPath, r.URL, formatSize(r.Size))
	}
	return nil
}

// FormatList formats list results as a table.
func (f *HumanFormatter) FormatList(w io.Writer, result *ListResult) error {
	if len(result.Items) == 0 {
		_, _ = fmt.Fprintln(w, "No uploads found")
		return nil
	}

	maxPathLen := 4 // "PATH"
	for i := range result.Items {
		if len(result.Items[i].Path) > maxPathLen {
			maxPathLen = len(result.Items[i].Path)
		}
	}
	if maxPathLen > 60 {
		maxPathLen = 60
	}

	header := f.paint(color.Bold)
	_, _ = header.Fprintf(w, "%-*s  %10s  %-24s  %s\n", maxPathLen, "PATH", "SIZE", "TYPE", "CREATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
		strings.Repeat("-", maxPathLen), strings.Repeat("-", 10), strings.Repeat("-", 24), strings.Repeat("-", 19))

	for i := range result.Items {
		item := &result.Items[i]
		path := item.Path
		if len(path) > maxPathLen {
			path = path[:maxPathLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %-24s  %s\n",
			maxPathLen,
			path,
			formatSize(item.Size),
			item.ContentType,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d upload(s) (%s total)\n", len(result.Items), formatSize(result.TotalSize()))
	}

	if result.NextCursor != "" {
		_, _ = fmt.Fprintf(w, "Next page: use --cursor %q\n", result.NextCursor)
	}

	return nil
}

// FormatDownload reports where a fetched file was written.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.LocalPath)
		return nil
	}
	_, _ = f.paint(color.FgGreen).Fprint(w, "Downloaded: ")
	_, _ = fmt.Fprintf(w, "%s -> %s (%s)\n", result.URL, result.LocalPath, formatSize(result.Size))
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = f.paint(color.FgRed).Fprint(w, "Error: ")
	_, _ = fmt.Fprintf(w, "%v\n", err)
	return nil
}

// FormatServers prints the saved servers, marking the current one with "*".
// Passwords are always masked.
func (f *HumanFormatter) FormatServers(w io.Writer, servers *Servers) error {
	names := servers.Names()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(w, "No servers saved. Run 'dropzone-cli server add <name>' to add one.")
		return nil
	}

	current := f.paint(color.FgGreen, color.Bold)
	for _, name := range names {
		srv := servers.Entries[name]
		auth := "no auth"
		if srv.Username != "" {
			auth = srv.Username + ":" + maskSecret(srv.Password)
		}

		if name == servers.Current {
			_, _ = current.Fprintf(w, "* %s", name)
		} else {
			_, _ = fmt.Fprintf(w, "  %s", name)
		}
		_, _ = fmt.Fprintf(w, "\t%s\t(%s)\n", srv.Endpoint, auth)
	}
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	type jsonResult struct {
		LocalPath  string `json:"local_path"`
		RemotePath string `json:"remote_path,omitempty"`
		URL        string `json:"url,omitempty"`
		Size       int64  `json:"size_bytes,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	output := make([]jsonResult, len(results))
	for i := range results {
		r := &results[i]
		jr := jsonResult{LocalPath: r.LocalPath}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		} else {
			jr.RemotePath = r.RemotePath
			jr.URL = r.URL
			jr.Size = r.Size
		}
		output[i] = jr
	}

	return writeJSON(w, output)
}

// FormatList formats list results as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, result *ListResult) error {
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatServers lists the saved servers as JSON with masked passwords.
func (f *JSONFormatter) FormatServers(w io.Writer, servers *Servers) error {
	type jsonServer struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
		Current  bool   `json:"current"`
	}

	output := make([]jsonServer, 0, len(servers.Entries))
	for _, name := range servers.Names() {
		srv := servers.Entries[name]
		js := jsonServer{
			Name:     name,
			Endpoint: srv.Endpoint,
			Username: srv.Username,
			Current:  name == servers.Current,
		}
		if srv.Password != "" {
			js.Password = maskSecret(srv.Password)
		}
		output = append(output, js)
	}

	return writeJSON(w, output)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// maskSecret hides a secret. Secrets longer than eight characters keep their
// first and last two.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
