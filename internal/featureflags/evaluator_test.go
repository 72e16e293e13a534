package featureflags

import (
	"fmt"
	"testing"
)

func prodFlag(rollout int) Flag {
	return Flag{
		Key:               "new-pricing-page",
		Environments:      map[string]bool{EnvProduction: true},
		RolloutPercentage: &rollout,
	}
}

func prodFlagNoRollout() Flag {
	return Flag{
		Key:          "new-pricing-page",
		Environments: map[string]bool{EnvProduction: true},
	}
}

func TestEvaluateEnvironmentGate(t *testing.T) {
	flag := prodFlag(100)

	if !Evaluate(flag, EnvProduction, "user-1") {
		t.Error("enabled environment at full rollout should be on")
	}
	if Evaluate(flag, EnvStaging, "user-1") {
		t.Error("environment not in the flag's map should be off")
	}
	if Evaluate(flag, EnvDevelopment, "user-1") {
		t.Error("environment not in the flag's map should be off")
	}

	flag.Environments[EnvStaging] = false
	if Evaluate(flag, EnvStaging, "user-1") {
		t.Error("explicitly disabled environment should be off")
	}
}

func TestEvaluateRolloutBoundaries(t *testing.T) {
	if Evaluate(prodFlag(0), EnvProduction, "user-1") {
		t.Error("0%% rollout should be off for everyone")
	}
	if !Evaluate(prodFlag(100), EnvProduction, "user-1") {
		t.Error("100%% rollout should be on for everyone")
	}
	// Full rollout does not need a user identity.
	if !Evaluate(prodFlag(100), EnvProduction, "") {
		t.Error("100%% rollout should be on for anonymous users")
	}
}

func TestEvaluateNoRolloutFollowsEnvironment(t *testing.T) {
	flag := prodFlagNoRollout()

	// Without a configured rollout the environment toggle alone decides.
	if !Evaluate(flag, EnvProduction, "user-1") {
		t.Error("enabled environment without a rollout should be on")
	}
	if !Evaluate(flag, EnvProduction, "") {
		t.Error("enabled environment without a rollout should be on for anonymous users")
	}
	if Evaluate(flag, EnvStaging, "user-1") {
		t.Error("disabled environment should stay off without a rollout")
	}

	// An explicit 0 is not the same as unset.
	if Evaluate(prodFlag(0), EnvProduction, "user-1") {
		t.Error("explicit 0%% rollout should be off")
	}
}

func TestEvaluateAnonymousNeverInPartialRollout(t *testing.T) {
	for _, pct := range []int{1, 25, 50, 99} {
		if Evaluate(prodFlag(pct), EnvProduction, "") {
			t.Errorf("anonymous user entered %d%% rollout", pct)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	flag := prodFlag(50)
	first := Evaluate(flag, EnvProduction, "user-42")
	for i := 0; i < 1000; i++ {
		if Evaluate(flag, EnvProduction, "user-42") != first {
			t.Fatal("evaluation changed for the same user and flag")
		}
	}
}

func TestEvaluatePartialRolloutSplitsUsers(t *testing.T) {
	flag := prodFlag(50)
	on := 0
	const users = 1000
	for i := 0; i < users; i++ {
		if Evaluate(flag, EnvProduction, fmt.Sprintf("user-%d", i)) {
			on++
		}
	}
	// The hash is not uniform enough for tight bounds; just require an
	// actual split.
	if on == 0 || on == users {
		t.Errorf("50%% rollout enabled %d of %d users, expected a split", on, users)
	}
}

func TestEvaluateDifferentFlagsBucketIndependently(t *testing.T) {
	a := prodFlag(50)
	b := prodFlag(50)
	b.Key = "checkout-redesign"

	differs := false
	for i := 0; i < 200; i++ {
		user := fmt.Sprintf("user-%d", i)
		if Evaluate(a, EnvProduction, user) != Evaluate(b, EnvProduction, user) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("two distinct flag keys bucketed every user identically")
	}
}

func TestRolloutBucketRange(t *testing.T) {
	inputs := []string{"", "a", "user-1new-pricing-page", "ünïcødé", "a-very-long-user-identifier-that-overflows-int32-accumulation"}
	for _, in := range inputs {
		b := rolloutBucket(in)
		if b < 0 || b > 99 {
			t.Errorf("rolloutBucket(%q) = %d, want [0,100)", in, b)
		}
	}
}
