/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/primefix/fixengine/fixengine"
)

// runConsole drives the session's operator API interactively. Each
// command gets a correlation ID that prefixes the console's own output
// for it, the way a request-scoped trace ID threads through a service.
func runConsole(sess *fixengine.Session) {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("status"),
		readline.PcItem("logout"),
		readline.PcItem("disconnect"),
		readline.PcItem("disconnect-logout"),
		readline.PcItem("reset"),
		readline.PcItem("force-reset"),
		readline.PcItem("seqnum"),
		readline.PcItem("setseqnum"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fixengine> ",
		HistoryFile:     "/tmp/fixengine_history",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Printf("failed to create console: %v", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}

		cmdID := uuid.New().String()
		switch strings.ToLower(parts[0]) {
		case "status":
			fmt.Printf("[%s] active=%v next_sender_seq=%d\n", cmdID, sess.IsActive(), sess.NextSenderMsgSeqNum())
		case "logout":
			sess.Logout()
			fmt.Printf("[%s] logout sent\n", cmdID)
		case "disconnect":
			sess.Disconnect()
			fmt.Printf("[%s] disconnected\n", cmdID)
			return
		case "disconnect-logout":
			sess.DisconnectWithLogout()
			fmt.Printf("[%s] logout sent, disconnected\n", cmdID)
			return
		case "reset":
			if err := sess.Reset(); err != nil {
				fmt.Printf("[%s] reset failed: %v\n", cmdID, err)
				continue
			}
			fmt.Printf("[%s] reset complete\n", cmdID)
		case "force-reset":
			if err := sess.ForceReset(); err != nil {
				fmt.Printf("[%s] force reset failed: %v\n", cmdID, err)
				continue
			}
			fmt.Printf("[%s] force reset complete\n", cmdID)
		case "seqnum":
			fmt.Printf("[%s] next_sender_seq=%d\n", cmdID, sess.NextSenderMsgSeqNum())
		case "setseqnum":
			if len(parts) < 2 {
				fmt.Println("usage: setseqnum <n>")
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Printf("invalid sequence number: %v\n", err)
				continue
			}
			if err := sess.SetNextSenderMsgSeqNum(int32(n)); err != nil {
				fmt.Printf("[%s] setseqnum failed: %v\n", cmdID, err)
				continue
			}
			fmt.Printf("[%s] next sender seq num set to %d\n", cmdID, n)
		case "help":
			printHelp()
		case "exit":
			return
		default:
			fmt.Println("unknown command, type 'help' for the list")
		}
	}
}

func printHelp() {
	fmt.Print(`Commands:
  status              - report whether the session is logged on and its next sender seq num
  logout               - send Logout and wait for the peer's confirming Logout
  disconnect            - close the transport immediately, no Logout exchanged
  disconnect-logout    - send Logout then close immediately
  reset                - clear session state and reset both sequence numbers to 1 (refused while logged on)
  force-reset          - reset even while logged on
  seqnum               - show the next outbound sequence number
  setseqnum <n>        - force the next outbound sequence number
  exit                 - leave the console and disconnect the session
`)
}
