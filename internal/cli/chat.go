package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const chatPrompt = "you> "

func newChatCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat against a running chatrelay server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &chatClient{
				baseURL: strings.TrimSuffix(serverURL, "/"),
				http:    &http.Client{Timeout: 2 * time.Minute},
			}
			return runChatREPL(cmd, client)
		},
	}
	cmd.Flags().StringVar(&serverURL, "url", "http://localhost:8080", "Base URL of the chat server")
	return cmd
}

type chatClient struct {
	baseURL string
	http    *http.Client
}

type chatReply struct {
	Response   string `json:"response"`
	RequestID  string `json:"request_id"`
	DurationMS int64  `json:"duration_ms"`
	Model      string `json:"model"`
	Error      string `json:"error"`
}

// Send posts one message and returns the server's reply.
func (c *chatClient) Send(message string) (*chatReply, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.baseURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post /chat: %w", err)
	}
	defer resp.Body.Close()

	var reply chatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if reply.Error != "" {
			return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, reply.Error)
		}
		return nil, fmt.Errorf("server error (%d)", resp.StatusCode)
	}
	return &reply, nil
}

func runChatREPL(cmd *cobra.Command, client *chatClient) error {
	out := cmd.OutOrStdout()
	readLine, closeInput, err := lineReader(cmd.InOrStdin(), out)
	if err != nil {
		return err
	}
	defer closeInput()

	fmt.Fprintln(out, "chatrelay interactive chat. Type 'exit' to quit.")
	for {
		line, err := readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		message := strings.TrimSpace(line)
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			return nil
		}

		reply, err := client.Send(message)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "assistant> %s\n", reply.Response)
		fmt.Fprintf(out, "(model=%s duration=%dms request_id=%s)\n\n", reply.Model, reply.DurationMS, reply.RequestID)
	}
}

// lineReader prefers readline on a terminal and falls back to buffered
// stdin, so the REPL also works under pipes and tests.
func lineReader(in io.Reader, out io.Writer) (func() (string, error), func(), error) {
	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if inOK && outOK && term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          chatPrompt,
			HistoryFile:     filepath.Join(os.TempDir(), ".chatrelay_history"),
			HistoryLimit:    200,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdin:           inFile,
			Stdout:          outFile,
			Stderr:          outFile,
		})
		if err != nil {
			return nil, nil, err
		}
		read := func() (string, error) {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt || err == io.EOF {
				return "", io.EOF
			}
			return line, err
		}
		return read, func() { rl.Close() }, nil
	}

	reader := bufio.NewReader(in)
	read := func() (string, error) {
		if _, err := fmt.Fprint(out, chatPrompt); err != nil {
			return "", err
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if len(line) > 0 {
				return line, nil
			}
			return "", err
		}
		return line, nil
	}
	return read, func() {}, nil
}
