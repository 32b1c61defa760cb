package config

type Profiles struct {
	*Root
}

type Show struct {
	*Root
}

type Run struct {
	*Root
}
