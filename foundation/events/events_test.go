package events_test

import (
	"fmt"
	"testing"

	"github.com/poolsight/poolsight/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestFanOut(t *testing.T) {
	t.Log("Given the need to fan the activity feed out to subscribers.")
	{
		evts := events.New()

		ch1 := evts.Subscribe("sub1")
		ch2 := evts.Subscribe("sub2")

		if again := evts.Subscribe("sub1"); again != ch1 {
			t.Fatalf("\t%s\tShould return the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould return the same channel for the same id.", success)

		evts.Send("opened period 5")

		for i, ch := range []<-chan string{ch1, ch2} {
			select {
			case msg := <-ch:
				if msg != "opened period 5" {
					t.Fatalf("\t%s\tShould deliver the message to subscriber %d, got %q.", failed, i+1, msg)
				}
			default:
				t.Fatalf("\t%s\tShould deliver the message to subscriber %d.", failed, i+1)
			}
		}
		t.Logf("\t%s\tShould deliver the message to every subscriber.", success)

		if err := evts.Unsubscribe("sub2"); err != nil {
			t.Fatalf("\t%s\tShould be able to unsubscribe: %v", failed, err)
		}
		if err := evts.Unsubscribe("sub2"); err == nil {
			t.Fatalf("\t%s\tShould reject unsubscribing an unknown id.", failed)
		}
		t.Logf("\t%s\tShould reject unsubscribing an unknown id.", success)

		if _, wd := <-ch2; wd {
			t.Fatalf("\t%s\tShould close the channel on unsubscribe.", failed)
		}
		t.Logf("\t%s\tShould close the channel on unsubscribe.", success)
	}
}

func TestSlowSubscriber(t *testing.T) {
	t.Log("Given the need to keep sending when a subscriber falls behind.")
	{
		evts := events.New()
		ch := evts.Subscribe("slow")

		// Overfill the subscription buffer. The extra sends must not block.
		for i := 0; i < 150; i++ {
			evts.Send(fmt.Sprintf("msg %d", i))
		}
		t.Logf("\t%s\tShould not block when the buffer is full.", success)

		var got int
	drain:
		for {
			select {
			case <-ch:
				got++
			default:
				break drain
			}
		}

		if got != 100 {
			t.Fatalf("\t%s\tShould drop messages past the buffer, kept %d.", failed, got)
		}
		t.Logf("\t%s\tShould drop messages past the buffer.", success)
	}
}

func TestShutdown(t *testing.T) {
	t.Log("Given the need to close all subscriptions on shutdown.")
	{
		evts := events.New()
		ch := evts.Subscribe("sub1")

		evts.Shutdown()
		evts.Shutdown()

		if _, wd := <-ch; wd {
			t.Fatalf("\t%s\tShould close open subscriptions.", failed)
		}
		t.Logf("\t%s\tShould close open subscriptions.", success)

		if _, wd := <-evts.Subscribe("late"); wd {
			t.Fatalf("\t%s\tShould hand a closed channel to late subscribers.", failed)
		}
		t.Logf("\t%s\tShould hand a closed channel to late subscribers.", success)
	}
}
