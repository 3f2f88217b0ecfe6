// Package audio plays the impact sound through a single shared voice.
//
// A [Voice] holds one decoded or synthesized sample and streams it into the
// speaker. Playing it again while it is still sounding restarts it from the
// beginning and cuts off the previous tail. [Device] attaches a voice to the
// system speaker; [Discard] is used when no device is available.
package audio
