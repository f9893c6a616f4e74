package notify

import "testing"

func TestPublishReachesSubscribers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe(TopicInventory)
	b := bus.Subscribe(TopicInventory)

	bus.Publish(TopicInventory)

	for name, sub := range map[string]*Subscription{"a": a, "b": b} {
		select {
		case <-sub.C:
		default:
			t.Errorf("subscriber %s missed the signal", name)
		}
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicProducts)

	bus.Publish(TopicInventory)

	select {
	case <-sub.C:
		t.Fatal("products subscriber received an inventory signal")
	default:
	}
}

func TestSignalsCoalesce(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicInventory)

	bus.Publish(TopicInventory)
	bus.Publish(TopicInventory)
	bus.Publish(TopicInventory)

	<-sub.C
	select {
	case <-sub.C:
		t.Fatal("undrained signals must coalesce into one")
	default:
	}
}

func TestCancelledSubscriptionReceivesNothing(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(TopicProducts)
	sub.Cancel()

	bus.Publish(TopicProducts)

	select {
	case <-sub.C:
		t.Fatal("cancelled subscription still receiving")
	default:
	}
}
