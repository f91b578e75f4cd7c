/*
 * ChatCLI - Command Line Interface for LLM interaction
 * Copyright (c) 2024 Edilson Freitas
 * License: MIT
 */
package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// AnimationManager mostra um spinner enquanto a chamada ao modelo está pendente.
type AnimationManager struct {
	out      io.Writer
	interval time.Duration
	wg       sync.WaitGroup
	done     chan struct{}
}

// NewAnimationManager escreve o spinner em out a cada 100ms.
func NewAnimationManager(out io.Writer) *AnimationManager {
	return &AnimationManager{out: out, interval: 100 * time.Millisecond}
}

// ShowThinkingAnimation inicia o spinner com o nome do modelo até StopThinkingAnimation.
func (am *AnimationManager) ShowThinkingAnimation(clientName string) {
	am.wg.Add(1)
	am.done = make(chan struct{})

	go func() {
		defer am.wg.Done()
		spinner := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(am.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(am.out, "\r%s is thinking... %s", clientName, spinner[i%len(spinner)])
			select {
			case <-am.done:
				fmt.Fprint(am.out, "\r\033[K") // Limpa a linha
				return
			case <-ticker.C:
			}
		}
	}()
}

// StopThinkingAnimation encerra o spinner e só retorna depois que a linha foi limpa.
func (am *AnimationManager) StopThinkingAnimation() {
	if am.done == nil {
		return
	}
	close(am.done)
	am.wg.Wait()
	am.done = nil
}
