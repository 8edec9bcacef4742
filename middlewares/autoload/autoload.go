package autoload

// Import all middleware subpackages for side-effect registration.
import (
	_ "esgchat/middlewares/commands"
	_ "esgchat/middlewares/scrub"
	_ "esgchat/middlewares/zhformat"
)
