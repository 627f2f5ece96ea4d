/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package internal_handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow Cross-Origin Access
		return true
	},
}

const eventWriteTimeout = 5 * time.Second

// Events upgrades the connection to a websocket and pushes a registry
// snapshot on every state change. A consumer that cannot keep up misses
// intermediate snapshots; one that cannot be written to is dropped.
func (h *Handler) Events(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		klog.ErrorS(err, "failed to upgrade events connection")
		return
	}
	defer conn.Close()

	id, updates := h.registry.Subscribe()
	defer h.registry.Unsubscribe(id)

	// Initial snapshot so the consumer does not wait for the first change.
	if err = writeSnapshot(conn, h.registry.View()); err != nil {
		return
	}
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err = writeSnapshot(conn, snap); err != nil {
				klog.V(2).Infof("dropping events consumer: %v", err)
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(snap)
}
