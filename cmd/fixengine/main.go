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

// Command fixengine is a thin operator console over one FIX session: it
// accepts or dials a single transport connection, drives a fixengine
// Session over it, and exposes the session's operator API through an
// interactive readline shell.
package main

import (
	"flag"
	"log"
	"net"
	"strings"
	"time"

	"github.com/primefix/fixengine/fixdict"
	"github.com/primefix/fixengine/fixengine"
	"github.com/primefix/fixengine/fixsession"
	"github.com/primefix/fixengine/internal/fixstore/sqlite"
)

func main() {
	var (
		dictPaths    = flag.String("dict", "testdata/fix44.xml,testdata/fixt11.xml", "comma-separated dictionary XML paths")
		mode         = flag.String("mode", "acceptor", "acceptor or initiator")
		addr         = flag.String("addr", ":5001", "listen address (acceptor) or dial address (initiator)")
		beginString  = flag.String("begin-string", "FIX.4.4", "BeginString for this session")
		senderCompID = flag.String("sender", "CLIENT", "our own CompID")
		targetCompID = flag.String("target", "SERVER", "peer's CompID")
		heartBtInt   = flag.Int("heartbeat", 30, "heartbeat interval in seconds")
		storeKind    = flag.String("store", "memory", "memory or sqlite")
		sqlitePath   = flag.String("sqlite-path", "fixengine.db", "sqlite store file, when -store=sqlite")
		resetOnLogon = flag.Bool("reset-on-logon", false, "reset sequence numbers at Logon (an initiator also sends ResetSeqNumFlag=Y)")
	)
	flag.Parse()

	dict, err := fixdict.Load(strings.Split(*dictPaths, ","), fixdict.Options{})
	if err != nil {
		log.Fatalf("load dictionary: %v", err)
	}

	store, err := openStore(*storeKind, *sqlitePath, *beginString, *senderCompID, *targetCompID)
	if err != nil {
		log.Fatalf("open message store: %v", err)
	}

	cfg := fixengine.Config{
		Dict:                dict,
		ID:                  fixsession.ID{BeginString: *beginString, SenderCompID: *senderCompID, TargetCompID: *targetCompID},
		Initiate:            *mode == "initiator",
		HeartBtInt:          time.Duration(*heartBtInt) * time.Second,
		InboundTimeoutLimit: 2,
		CheckCompID:         true,
		CheckLatency:        true,
		MaxLatency:          2 * time.Minute,
		ResetOnLogon:        *resetOnLogon,
		Enabled:             true,
	}

	conn, err := dialOrAccept(*mode, *addr)
	if err != nil {
		log.Fatalf("establish transport: %v", err)
	}

	registry := fixengine.NewRegistry()
	sess := fixengine.New(cfg, store, conn, registry)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Start()
	}()

	go printEvents(sess)

	runConsole(sess)

	sess.Disconnect()
	<-done
}

func openStore(kind, path, beginString, sender, target string) (fixsession.MessageStore, error) {
	if kind == "sqlite" {
		sessionID := beginString + ":" + sender + "->" + target
		return sqlite.Open(path, sessionID)
	}
	return fixsession.NewMemoryStore(), nil
}

func dialOrAccept(mode, addr string) (net.Conn, error) {
	if mode == "initiator" {
		return net.Dial("tcp", addr)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	log.Printf("listening on %s, waiting for one connection", addr)
	return ln.Accept()
}

func printEvents(sess *fixengine.Session) {
	for ev := range sess.Events() {
		switch ev.Kind {
		case fixengine.EventLogon:
			log.Print("logon complete")
		case fixengine.EventLogout:
			log.Print("session logged out")
		case fixengine.EventReject:
			log.Printf("received Reject")
		case fixengine.EventDisconnect:
			if ev.Err != nil {
				log.Printf("disconnected: %v", ev.Err)
			} else {
				log.Print("disconnected")
			}
		case fixengine.EventApp:
			log.Printf("application message: %s", ev.Message.Def.MsgType)
		}
	}
}
