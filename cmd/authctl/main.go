// authctl is an operator tool for credential administration. It talks to
// the auth service HTTP API and prompts for secrets without echoing them.
//
// Usage:
//
//	authctl [-addr http://localhost:8080] register
//	authctl [-addr http://localhost:8080] change-password
//	authctl [-addr http://localhost:8080] change-email
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "auth service base URL")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	var err error
	switch flag.Arg(0) {
	case "register":
		err = register(reader, *addr)
	case "change-password":
		err = changePassword(reader, *addr)
	case "change-email":
		err = changeEmail(reader, *addr)
	default:
		fmt.Fprintln(os.Stderr, "usage: authctl [-addr URL] register|change-password|change-email")
		os.Exit(2)
	}

	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	fmt.Println("Success!")
}

func register(reader *bufio.Reader, addr string) error {
	email, err := getSimpleText(reader, "Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword()
	if err != nil {
		return err
	}
	return send(http.MethodPost, addr+"/api/auth/credentials",
		map[string]string{"email": email, "password": string(password)})
}

func changePassword(reader *bufio.Reader, addr string) error {
	email, err := getSimpleText(reader, "Enter email")
	if err != nil {
		return err
	}
	fmt.Println("-Enter new password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	return send(http.MethodPut, addr+"/api/auth/credentials/password",
		map[string]string{"email": email, "newPassword": string(password)})
}

func changeEmail(reader *bufio.Reader, addr string) error {
	oldEmail, err := getSimpleText(reader, "Enter current email")
	if err != nil {
		return err
	}
	newEmail, err := getSimpleText(reader, "Enter new email")
	if err != nil {
		return err
	}
	return send(http.MethodPut, addr+"/api/auth/credentials/email",
		map[string]string{"oldEmail": oldEmail, "newEmail": newEmail})
}

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func getPassword() ([]byte, error) {
	fmt.Println("-Enter password")
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func send(method, url string, payload map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var parsed struct {
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.Error != nil {
		return fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
