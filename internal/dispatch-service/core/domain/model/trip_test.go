package model

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusRequested, StatusAssigned},
		{StatusAssigned, StatusAccepted},
		{StatusAssigned, StatusRequested},
		{StatusAccepted, StatusEnRoute},
		{StatusEnRoute, StatusCompleted},
	}
	for _, edge := range allowed {
		if !CanTransition(edge[0], edge[1]) {
			t.Fatalf("expected %s -> %s to be allowed", edge[0], edge[1])
		}
	}

	forbidden := [][2]string{
		{StatusRequested, StatusAccepted},
		{StatusRequested, StatusCompleted},
		{StatusAccepted, StatusCompleted},
		{StatusAccepted, StatusRequested},
		{StatusEnRoute, StatusRequested},
		{StatusCompleted, StatusRequested},
		{StatusCompleted, StatusEnRoute},
	}
	for _, edge := range forbidden {
		if CanTransition(edge[0], edge[1]) {
			t.Fatalf("expected %s -> %s to be rejected", edge[0], edge[1])
		}
	}
}

func TestRatingAverage(t *testing.T) {
	u := User{}
	if avg := u.RatingAverage(); avg != 0 {
		t.Fatalf("expected 0 for no ratings, got %v", avg)
	}

	u.Ratings = []int{5, 3}
	if avg := u.RatingAverage(); avg != 4 {
		t.Fatalf("expected 4, got %v", avg)
	}

	u.Ratings = []int{5, 4, 4}
	want := 13.0 / 3.0
	if avg := u.RatingAverage(); avg != want {
		t.Fatalf("expected %v, got %v", want, avg)
	}
}
