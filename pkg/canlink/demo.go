package canlink

import "time"

// Demo returns a transport backed by a simulated vehicle, for running
// the controller without any physical link. The simulated vehicle emits
// its heartbeat once per second and swallows all commands.
func Demo() Transport {
	ctl, veh := NewLoopback()
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			for {
				_, ok, err := veh.TryReceive()
				if err != nil {
					return
				}
				if !ok {
					break
				}
			}
			if err := veh.Send(Message{ID: IDHeartbeatIn, Data: make([]byte, 8)}); err != nil {
				return
			}
		}
	}()
	return ctl
}
