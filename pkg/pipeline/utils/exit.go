/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package utils

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// exitNotifier closes the channels of long running ingesters once the process is asked to stop.
type exitNotifier struct {
	mu       sync.Mutex
	channels []chan struct{}
	exited   bool
}

var notifier exitNotifier

// RegisterExitChannel adds a channel closed on exit. It is closed right away when the exit already happened.
func RegisterExitChannel(ch chan struct{}) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.exited {
		close(ch)
		return
	}
	notifier.channels = append(notifier.channels, ch)
}

// Exit closes every registered channel. Later calls do nothing.
func Exit() {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.exited {
		return
	}
	notifier.exited = true
	for _, ch := range notifier.channels {
		close(ch)
	}
	notifier.channels = nil
}

func registered() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.channels)
}

// SetupElegantExit forgets the registered channels and calls Exit on SIGINT or SIGTERM.
func SetupElegantExit() {
	log.Debugf("entering SetupElegantExit")
	notifier.mu.Lock()
	notifier.channels = nil
	notifier.exited = false
	notifier.mu.Unlock()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		signal.Stop(sigs)
		log.Infof("received %v, stopping the ingesters", sig)
		Exit()
	}()
}
