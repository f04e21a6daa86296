package project

import "testing"

// SampleHCL is a small project used by tests.
const SampleHCL = `
name  = "sample"
model = "MVP-5200i"

page "Main" {
  id = 1  width = 1024  height = 600  fill_color = "#000000"
  button "title" {
    index = 1  left = 0  top = 0  width = 1024  height = 60
    addr_port = 1  addr_channel = 9
    state { text = "Welcome"  fill_color = "#202020" }
    state { text = "Welcome"  fill_color = "#404040" }
  }
  button "go-lights" {
    index = 2  left = 10  top = 100  width = 200  height = 80
    channel_port = 1  channel = 10  page_flip = "Lights"
    state { text = "Lights" }
    state { text = "Lights" }
  }
  button "fx1" {
    index = 3  left = 10  top = 200  width = 100  height = 100
    state { fill_color = "#111111" }
    state { fill_color = "#222222" }
  }
  button "fx2" {
    index = 4  left = 120  top = 200  width = 100  height = 100
    state { fill_color = "#111111" }
    state { fill_color = "#222222" }
  }
  button "fx3" {
    index = 5  left = 230  top = 200  width = 100  height = 100
    state { fill_color = "#111111" }
    state { fill_color = "#222222" }
  }
  button "volume" {
    index = 6  type = "bargraph"  left = 400  top = 200  width = 40  height = 300
    level_port = 1  level_channel = 30  range_low = 0  range_high = 255
    state {}
    state {}
  }
  button "scene" {
    index = 7  type = "multistate-bargraph"  left = 500  top = 200  width = 100  height = 100
    level_port = 1  level_channel = 31  range_low = 0  range_high = 100
    state { text = "s0" }
    state { text = "s1" }
    state { text = "s2" }
    state { text = "s3" }
    state { text = "s4" }
  }
}

page "Lights" {
  id = 12  width = 1024  height = 600
  button "lamp" {
    index = 3  left = 100  top = 100  width = 200  height = 200
    channel_port = 5  channel = 200
    state { fill_color = "#333333"  text = "off" }
    state { fill_color = "#ffff00"  text = "on" }
  }
}

popup "Popup1" {
  id = 500  group = "A"  left = 100  top = 100  width = 300  height = 200
}
popup "Popup2" {
  id = 501  group = "A"  left = 150  top = 150  width = 300  height = 200
  show_effect = "fade"  show_time = 5  hide_effect = "fade"  hide_time = 5
}
popup "Dialog" {
  id = 502  left = 200  top = 100  width = 400  height = 300  timeout = 30
  button "ok" {
    index = 1  left = 150  top = 200  width = 100  height = 50
    channel_port = 1  channel = 50  addr_port = 1  addr_channel = 51
    state { text = "OK" }
    state { text = "OK" }
  }
}
popup "Toast" {
  id = 503  left = 0  top = 500  width = 1024  height = 100
  show_effect = "slide to bottom"  show_time = 3  hide_effect = "slide to top fade"  hide_time = 3
}

map {
  state  { port = 5  channel = 200  page = 12  button = 3  page_name = "Lights"  button_name = "lamp" }
  state  { port = 1  channel = 10   page = 1   button = 2  page_name = "Main"    button_name = "go-lights" }
  state  { port = 1  channel = 50   page = 502 button = 1  page_name = "Dialog"  button_name = "ok" }
  analog { port = 1  channel = 1    page = 1   button = 3  page_name = "Main"    button_name = "fx1" }
  analog { port = 1  channel = 2    page = 1   button = 4  page_name = "Main"    button_name = "fx2" }
  analog { port = 1  channel = 3    page = 1   button = 5  page_name = "Main"    button_name = "fx3" }
  analog { port = 1  channel = 9    page = 1   button = 1  page_name = "Main"    button_name = "title" }
  analog { port = 1  channel = 51   page = 502 button = 1  page_name = "Dialog"  button_name = "ok" }
  level  { port = 1  channel = 30   page = 1   button = 6  page_name = "Main"    button_name = "volume" }
  level  { port = 1  channel = 31   page = 1   button = 7  page_name = "Main"    button_name = "scene" }
  sounds = ["chime.wav"]
}
`

func MustSample(t testing.TB) *Memory {
	m, err := Decode([]byte(SampleHCL))
	if err != nil {
		t.Fatal(err)
	}
	return m
}
