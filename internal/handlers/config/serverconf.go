package config

// ServerConf holds HTTP server configuration
type ServerConf struct {
	ServerAddr   string `validate:"required,hostname_port"`
	Debug        bool
	AllowedHosts []string `validate:"dive,required"`
	Middleware   []string `validate:"min=1,unique,dive,required"`
	Security     SecurityConf
	CORS         CORSConf
	REST         RESTConf
}

// SecurityConf holds transport security flags
type SecurityConf struct {
	SSLRedirect         bool
	SessionCookieSecure bool
	CSRFCookieSecure    bool
	BrowserXSSFilter    bool
	XFrameOptions       string `validate:"oneof=DENY SAMEORIGIN"`
	ContentTypeNosniff  bool
}

// CORSConf holds the list of origins allowed to make cross-origin requests
type CORSConf struct {
	AllowedOrigins []string `validate:"dive,url"`
}

// RESTConf holds default authentication and permission classes of API routes
type RESTConf struct {
	AuthenticationClasses []string `validate:"min=1,dive,oneof=jwt"`
	PermissionClasses     []string `validate:"dive,oneof=allow_any is_authenticated"`
}
