// Command arith-client is the interactive client: it creates a per-process
// reply FIFO, then reads operations from stdin and prints the server's answer.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fifo-arith/client"
	"fifo-arith/message"
)

func main() {
	requestPath := flag.String("request", "/tmp/arith_req_fifo", "well-known request FIFO path")
	flag.Parse()

	sess, err := client.NewSession(*requestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	fmt.Println("Client ready. Type 'exit' to quit.")
	fmt.Println("Usage: <op> <a> <b>   e.g., add 6 9")
	fmt.Println("Allowed operations: add, sub, mul, div")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		op, a, b, err := parseLine(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		result, err := sess.Call(op, a, b)
		var srvErr *client.ServerError
		switch {
		case errors.As(err, &srvErr):
			// Domain error: print and keep the session going.
			fmt.Printf("Server error: %s\n\n", srvErr.Message)
		case err != nil:
			fmt.Fprintf(os.Stderr, "client: %v\n", err)
		default:
			fmt.Printf("Result from server: %d\n\n", result)
		}
	}

	fmt.Println("Client exiting. Goodbye!")
}

func parseLine(line string) (op string, a, b int64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", 0, 0, errors.New("Invalid input. Usage: <op> <a> <b>")
	}
	op = fields[0]
	if !message.ValidOp(op) {
		return "", 0, 0, errors.New("Invalid operation. Allowed: add, sub, mul, div")
	}
	a, err = strconv.ParseInt(fields[1], 10, 64)
	if err == nil {
		b, err = strconv.ParseInt(fields[2], 10, 64)
	}
	if err != nil {
		return "", 0, 0, errors.New("Invalid input. Please enter two integers.")
	}
	return op, a, b, nil
}
