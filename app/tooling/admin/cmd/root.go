// Package cmd contains the admin app commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	publicURL  string
	privateURL string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&publicURL, "public-url", "u", "http://0.0.0.0:8080", "Base url of the public API.")
	rootCmd.PersistentFlags().StringVarP(&privateURL, "private-url", "p", "http://0.0.0.0:9080", "Base url of the private API.")
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks against a running indexer",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// get performs a GET against the specified url and pretty prints the
// JSON response.
func get(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return print(resp)
}

// post performs a POST against the specified url and pretty prints the
// JSON response.
func post(url string, body string) error {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return print(resp)
}

// print indents the JSON response for reading on a terminal.
func print(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {

		// Not JSON, show it raw.
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(out.String())

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}
