/*
Package testutil provides testing utilities shared across the poll backend
test suites.

The core package publishes its events through a Publisher interface; tests
substitute a RecordingPublisher to assert on what was published, in which
order, and how often:

	pub := testutil.NewRecordingPublisher()
	ctrl := poll.NewController(reg, pub, nil)

	// drive the controller...

	require.Equal(t, 1, pub.Count("question:end"))
	last, _ := pub.Last("question:end")

For asynchronous paths like deadline timers, WaitFor polls until an event
count is reached or a timeout expires:

	require.True(t, pub.WaitFor("question:end", 1, 2*time.Second))
*/
package testutil
