/*
Package resilience provides a circuit breaker for outbound calls.

# Overview

A Breaker guards one target. A Group keeps one Breaker per key, which the
relay uses to guard each upstream host independently. Only errors accepted by
Settings.IsFailure count against a breaker, so callers can ignore outcomes
(such as upstream 5xx responses) that are not transport faults.

# Usage

	group := resilience.NewGroup(resilience.Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: resilience.ConsecutiveFailures(10),
		OnStateChange: func(host string, from, to resilience.State) {
			logger.Warn("breaker state changed", zap.String("host", host))
		},
	})

	err := group.Execute(host, func() error {
		return dispatch()
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
